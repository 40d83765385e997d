package controller

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
	"github.com/lumenfilms/lumen-media-service/http/controller/dto"
	"github.com/lumenfilms/lumen-media-service/infra/produce"
	"github.com/lumenfilms/lumen-media-service/upload"
	"github.com/lumenfilms/lumen-media-service/utils"
)

const progressTTL = 24 * time.Hour

func progressKey(uploadID string) string {
	return "upload:progress:" + uploadID
}

// resolveUploadID picks the progress-tracking id for a video ingest. The
// handler is synchronous, so a client that wants to poll the progress
// endpoint mid-upload must supply its own id in the form; without one an id
// is generated and only becomes known through the final response.
func resolveUploadID(c *gin.Context) (string, error) {
	id := c.PostForm("upload_id")
	if id == "" {
		return uuid.New().String(), nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

// parseProgress decodes a stored progress snapshot.
func parseProgress(val string) (int, error) {
	percent, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt progress value %q: %w", val, err)
	}
	return percent, nil
}

// UploadMedia ingests one media file. Videos go through the chunked
// pipeline; images are stored in a single request.
func (ctrl *Controller) UploadMedia(c *gin.Context) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Media] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Invalid user_id format: %v", err)
		utils.JSON400(c, "Invalid user_id format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to get file from form data")
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	info := upload.FileInfo{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
	}

	validator := upload.NewValidator(
		ctrl.Config.EnvConfig.Upload.MaxVideoSize,
		ctrl.Config.EnvConfig.Upload.MaxImageSize,
	)
	kind, err := validator.Validate(info)
	if err != nil {
		ctrl.rejectInvalidFile(c, info, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to open uploaded file")
		utils.JSON500(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}
	description := c.PostForm("description")

	if kind == upload.KindImage {
		_, url, err := ctrl.Uploader.IngestImage(ctx, info, file)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Image ingest failed")
			utils.JSON500(c, "Image upload failed")
			return
		}
		media := &entity.MediaRecord{
			ID:          uuid.New(),
			Title:       title,
			Description: description,
			SourceKind:  entity.SourceKindFile,
			VideoRef:    url,
			OwnerID:     userID,
		}
		if err := ctrl.Repository.MediaRepo.Create(media); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to create media record")
			utils.JSON500(c, "Failed to save media record")
			return
		}
		utils.JSON201(c, gin.H{"media_id": media.ID, "url": url})
		return
	}

	// Video: chunked pipeline with progress snapshots in Redis.
	uploadID, err := resolveUploadID(c)
	if err != nil {
		utils.JSON400(c, "Invalid upload_id format")
		return
	}
	progress := func(percent int) {
		if err := ctrl.Infra.Redis.Set(ctx, progressKey(uploadID), strconv.Itoa(percent), progressTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Failed to record progress for upload %s: %v", uploadID, err)
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Media] Ingesting video %q (%d bytes) for user %s as upload %s",
		fileHeader.Filename, fileHeader.Size, userID, uploadID)

	result, err := ctrl.Uploader.IngestVideo(ctx, info, file, progress)
	if err != nil {
		var chunkErr *upload.ChunkUploadError
		if errors.As(err, &chunkErr) {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Upload %s failed at chunk %d", uploadID, chunkErr.Index)
			utils.JSON500(c, fmt.Sprintf("Upload failed at chunk %d after retries; uploaded chunks were cleaned up", chunkErr.Index))
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Upload %s failed", uploadID)
		utils.JSON500(c, "Upload failed: "+err.Error())
		return
	}

	media := &entity.MediaRecord{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		SourceKind:  entity.SourceKindChunked,
		VideoRef:    result.ID,
		OwnerID:     userID,
	}
	if result.Status == upload.StatusDegraded {
		// The degraded reference is a raw chunk URL, not a manifest ID, and
		// cannot drive chunked playback.
		media.SourceKind = entity.SourceKindFile
		media.VideoRef = result.ReferenceURL
	}
	if err := ctrl.Repository.MediaRepo.Create(media); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to create media record for upload %s", uploadID)
		utils.JSON500(c, "Upload succeeded but media record creation failed")
		return
	}

	utils.JSON201(c, dto.UploadResponse{
		ID:           result.ID,
		MediaID:      media.ID.String(),
		UploadID:     uploadID,
		ReferenceURL: result.ReferenceURL,
		ChunkCount:   result.ChunkCount,
		TotalSize:    result.TotalSize,
		Status:       result.Status,
	})
}

func (ctrl *Controller) rejectInvalidFile(c *gin.Context, info upload.FileInfo, err error) {
	ctx := c.Request.Context()
	var tooLarge *upload.FileTooLargeError
	if errors.As(err, &tooLarge) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Rejecting %q: %v", info.Filename, err)
		utils.JSON413(c, gin.H{
			"error":     "FILE_TOO_LARGE",
			"message":   fmt.Sprintf("%s files may not exceed %d bytes", tooLarge.Kind, tooLarge.Limit),
			"file_size": tooLarge.Size,
			"limit":     tooLarge.Limit,
		})
		return
	}
	if errors.Is(err, upload.ErrEmptyFile) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Rejecting %q: empty file", info.Filename)
		utils.JSON400(c, "Uploaded file is empty")
		return
	}
	if errors.Is(err, upload.ErrUnsupportedType) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Rejecting %q: unsupported type %q", info.Filename, info.ContentType)
		utils.JSON415(c, gin.H{
			"error":   "UNSUPPORTED_TYPE",
			"message": "Only video and image files are accepted",
		})
		return
	}
	utils.JSON400(c, err.Error())
}

// GetUploadProgress returns the latest progress snapshot for an upload.
func (ctrl *Controller) GetUploadProgress(c *gin.Context) {
	ctx := c.Request.Context()
	uploadID := c.Param("upload_id")
	if _, err := uuid.Parse(uploadID); err != nil {
		utils.JSON400(c, "Invalid upload_id format")
		return
	}

	val, ok, err := ctrl.Infra.Redis.Get(ctx, progressKey(uploadID))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to read progress for upload %s", uploadID)
		utils.JSON500(c, "Failed to read upload progress")
		return
	}
	if !ok {
		utils.JSON404(c, "Upload not found")
		return
	}

	percent, err := parseProgress(val)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Corrupt progress snapshot for upload %s", uploadID)
		utils.JSON500(c, "Failed to read upload progress")
		return
	}
	utils.JSON200(c, dto.ProgressResponse{UploadID: uploadID, Progress: percent})
}

// GetManifest returns the raw manifest row.
func (ctrl *Controller) GetManifest(c *gin.Context) {
	ctx := c.Request.Context()
	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid manifest ID format")
		return
	}

	manifest, err := ctrl.Repository.ManifestRepo.FindByID(manifestID)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Manifest %s not found: %v", manifestID, err)
		utils.JSON404(c, "Manifest not found")
		return
	}
	utils.JSON200(c, manifest)
}

// DeleteMedia removes a manifest row and queues asynchronous deletion of its
// chunks, mirroring the row-first, storage-later ordering used elsewhere.
func (ctrl *Controller) DeleteMedia(c *gin.Context) {
	ctx := c.Request.Context()
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid manifest ID format")
		return
	}

	manifest, err := ctrl.Repository.ManifestRepo.FindByID(manifestID)
	if err != nil {
		utils.JSON404(c, "Manifest not found")
		return
	}

	if err := ctrl.Repository.ManifestRepo.Delete(manifestID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to delete manifest %s", manifestID)
		utils.JSON500(c, "Failed to delete manifest")
		return
	}

	// Drop the cached URL list so playback can't resolve the dead manifest.
	if err := ctrl.Infra.Redis.Delete(ctx, "playback:chunks:"+manifestID.String()); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Failed to drop cached chunk URLs for %s: %v", manifestID, err)
	}

	cleanupMsg := produce.ChunkCleanupMessage{
		ManifestID: manifestID.String(),
		Bucket:     manifest.StorageBucket,
		Prefix:     manifestID.String() + "/",
	}
	if err := ctrl.Infra.Produce.MediaService.PublishChunkCleanup(ctx, cleanupMsg); err != nil {
		// Row is already gone; chunks will be orphaned until a manual sweep.
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Media] Failed to publish chunk cleanup for %s", manifestID)
	}

	if media, err := ctrl.Repository.MediaRepo.FindByVideoRef(manifestID.String()); err == nil {
		if err := ctrl.Repository.MediaRepo.Delete(media.ID); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Failed to delete media record %s: %v", media.ID, err)
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Media] Deleted manifest %s, chunk cleanup queued", manifestID)
	utils.JSON200(c, gin.H{
		"message":     "Media deleted",
		"manifest_id": manifestID,
	})
}
