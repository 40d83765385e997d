package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ThumbnailPublisher queues best-effort thumbnail derivation after a video
// ingest completes.
type ThumbnailPublisher interface {
	PublishThumbnailJob(ctx context.Context, manifestID, videoURL string) error
}

// Result is the externally visible contract for a successfully ingested file.
type Result struct {
	ID           string `json:"id"`
	ReferenceURL string `json:"reference_url"`
	ChunkCount   int    `json:"chunk_count"`
	TotalSize    int64  `json:"total_size"`
	Status       string `json:"status"`
}

const (
	// StatusReady means the manifest row exists and playback is chunk-aware.
	StatusReady = "ready"
	// StatusDegraded means the manifest write failed and ReferenceURL points
	// at the first chunk's raw URL, which is not chunk-aware.
	StatusDegraded = "degraded"
)

// Uploader is the composition root wiring validator, splitter, upload client
// and manifest writer. One Uploader serves many concurrent tasks; each task
// owns its own state.
type Uploader struct {
	validator *Validator
	client    *ChunkUploadClient
	manifests *ManifestWriter
	thumbs    ThumbnailPublisher
	store     ObjectStore
	logger    Logger

	bucket    string
	chunkSize int64
	urlExpire time.Duration
}

func NewUploader(
	validator *Validator,
	client *ChunkUploadClient,
	manifests *ManifestWriter,
	thumbs ThumbnailPublisher,
	store ObjectStore,
	logger Logger,
	bucket string,
	chunkSize int64,
	urlExpire time.Duration,
) *Uploader {
	return &Uploader{
		validator: validator,
		client:    client,
		manifests: manifests,
		thumbs:    thumbs,
		store:     store,
		logger:    logger,
		bucket:    bucket,
		chunkSize: chunkSize,
		urlExpire: urlExpire,
	}
}

// IngestVideo runs the full chunked pipeline for one video file:
// validate, split, upload sequentially, write the manifest, then queue
// thumbnail derivation. progress may be nil.
func (u *Uploader) IngestVideo(ctx context.Context, info FileInfo, src io.ReaderAt, progress ProgressFunc) (*Result, error) {
	kind, err := u.validator.Validate(info)
	if err != nil {
		return nil, err
	}
	if kind != KindVideo {
		return nil, ErrUnsupportedType
	}

	task := NewUploadTask(info, u.chunkSize)
	u.logger.InfoWithContextf(ctx, "[Ingest] Task %s: %q (%d bytes, %s) split into %d chunks",
		task.ID, info.Filename, info.Size, task.ContentType, len(task.Chunks))

	paths, err := u.client.UploadChunks(ctx, task, src, progress)
	if err != nil {
		return nil, err
	}

	manifest, err := u.manifests.Write(task, u.bucket, paths)
	if err != nil {
		// Deliberate best-effort fallback: keep the uploaded chunks and hand
		// back the first chunk's raw URL as a degraded reference instead of
		// failing the whole upload. The reference is not chunk-aware, so
		// chunked playback cannot use it; log loudly.
		u.logger.ErrorWithContextf(ctx, err, "[Ingest] Task %s: manifest write failed, falling back to degraded single-chunk reference", task.ID)
		firstURL, urlErr := u.store.PresignedURL(ctx, u.bucket, paths[0], u.urlExpire)
		if urlErr != nil {
			u.logger.ErrorWithContextf(ctx, urlErr, "[Ingest] Task %s: degraded fallback failed too, cleaning up chunks", task.ID)
			u.client.cleanup(ctx, task)
			return nil, err
		}
		if progress != nil {
			progress(100)
		}
		return &Result{
			ID:           task.ID.String(),
			ReferenceURL: firstURL,
			ChunkCount:   len(paths),
			TotalSize:    info.Size,
			Status:       StatusDegraded,
		}, nil
	}

	if progress != nil {
		progress(100)
	}

	// Thumbnail derivation is best-effort and asynchronous; its failure must
	// never fail the ingest.
	firstURL, urlErr := u.store.PresignedURL(ctx, u.bucket, paths[0], u.urlExpire)
	if urlErr != nil {
		u.logger.WarningWithContextf(ctx, "[Ingest] Task %s: could not presign first chunk for thumbnail job: %v", task.ID, urlErr)
	} else if u.thumbs != nil {
		if err := u.thumbs.PublishThumbnailJob(ctx, manifest.ID.String(), firstURL); err != nil {
			u.logger.WarningWithContextf(ctx, "[Ingest] Task %s: failed to queue thumbnail job: %v", task.ID, err)
		}
	}

	u.logger.InfoWithContextf(ctx, "[Ingest] Task %s: manifest ready with %d chunks", task.ID, manifest.ChunkCount)
	return &Result{
		ID:           manifest.ID.String(),
		ReferenceURL: ReferenceURL(manifest.ID.String()),
		ChunkCount:   manifest.ChunkCount,
		TotalSize:    manifest.TotalSize,
		Status:       StatusReady,
	}, nil
}

// IngestImage uploads an image in one request; images stay far below the
// backend request ceiling so no chunking is involved.
func (u *Uploader) IngestImage(ctx context.Context, info FileInfo, src io.Reader) (string, string, error) {
	kind, err := u.validator.Validate(info)
	if err != nil {
		return "", "", err
	}
	if kind != KindImage {
		return "", "", ErrUnsupportedType
	}

	path := fmt.Sprintf("images/%s%s", uuid.New(), filepath.Ext(info.Filename))
	if err := u.store.Put(ctx, u.bucket, path, src, info.Size, ResolveContentType(info)); err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	url, err := u.store.PresignedURL(ctx, u.bucket, path, u.urlExpire)
	if err != nil {
		return "", "", err
	}

	u.logger.InfoWithContextf(ctx, "[Ingest] Image %q stored at %s", info.Filename, path)
	return path, url, nil
}

// ReferenceURL is the canonical chunk-aware reference for a manifest.
func ReferenceURL(manifestID string) string {
	return fmt.Sprintf("/api/v1/media/%s/chunks", manifestID)
}
