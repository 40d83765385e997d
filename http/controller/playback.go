package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/http/controller/dto"
	"github.com/lumenfilms/lumen-media-service/playback"
	"github.com/lumenfilms/lumen-media-service/utils"
)

// GetPlayableChunks resolves a manifest to its ordered, fetchable chunk
// URLs. An empty list is a valid response ("nothing to play"), distinct
// from a missing manifest.
func (ctrl *Controller) GetPlayableChunks(c *gin.Context) {
	ctx := c.Request.Context()
	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid manifest ID format")
		return
	}

	urls, err := ctrl.Resolver.ResolvePlayableChunks(ctx, manifestID)
	if err != nil {
		if errors.Is(err, playback.ErrManifestNotFound) {
			utils.JSON404(c, "MANIFEST_NOT_FOUND")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Playback] Failed to resolve chunks for %s", manifestID)
		utils.JSON500(c, "Failed to resolve playable chunks")
		return
	}

	if urls == nil {
		urls = []string{}
	}
	utils.JSON200(c, dto.ChunksResponse{
		ManifestID: manifestID.String(),
		ChunkURLs:  urls,
		ChunkCount: len(urls),
	})
}

// StreamChunk proxies one chunk's bytes through the service. Players normally
// fetch the presigned URLs directly; this path covers deployments where the
// storage endpoint is not reachable from the viewer's network.
func (ctrl *Controller) StreamChunk(c *gin.Context) {
	ctx := c.Request.Context()
	manifestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid manifest ID format")
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.JSON400(c, "Invalid chunk index")
		return
	}

	manifest, err := ctrl.Repository.ManifestRepo.FindByID(manifestID)
	if err != nil {
		utils.JSON404(c, "MANIFEST_NOT_FOUND")
		return
	}
	if index < 0 || index >= len(manifest.ChunkPaths) {
		utils.JSON404(c, "Chunk index out of range")
		return
	}

	stream, size, err := ctrl.Infra.Minio.GetStream(ctx, manifest.StorageBucket, manifest.ChunkPaths[index])
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Playback] Failed to stream chunk %d of manifest %s", index, manifestID)
		utils.JSON500(c, "Failed to stream chunk")
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, size, manifest.MimeType, stream, nil)
}
