package controller

import (
	"context"
	"time"

	"github.com/lumenfilms/lumen-media-service/config"
	"github.com/lumenfilms/lumen-media-service/infra"
	"github.com/lumenfilms/lumen-media-service/infra/produce"
	"github.com/lumenfilms/lumen-media-service/playback"
	"github.com/lumenfilms/lumen-media-service/repository"
	"github.com/lumenfilms/lumen-media-service/upload"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Uploader   *upload.Uploader
	Resolver   *playback.Resolver
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	env := cfg.EnvConfig
	urlExpire := time.Duration(env.Playback.URLExpire) * time.Second

	validator := upload.NewValidator(env.Upload.MaxVideoSize, env.Upload.MaxImageSize)
	client := upload.NewChunkUploadClient(
		infra.Minio,
		env.Upload.MediaBucket,
		env.Upload.ChunkRetries,
		time.Duration(env.Upload.ChunkTimeout)*time.Second,
		infra.Logger,
	)
	writer := upload.NewManifestWriter(repo.ManifestRepo)
	uploader := upload.NewUploader(
		validator,
		client,
		writer,
		&thumbnailPublisher{produce: infra.Produce.MediaService},
		infra.Minio,
		infra.Logger,
		env.Upload.MediaBucket,
		env.Upload.ChunkSize,
		urlExpire,
	)

	resolver := playback.NewResolver(repo.ManifestRepo, infra.Minio, infra.Redis, infra.Logger, urlExpire)

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Uploader:   uploader,
		Resolver:   resolver,
	}
}

// thumbnailPublisher adapts the produce service to the uploader's interface.
type thumbnailPublisher struct {
	produce *produce.MediaProduceService
}

func (p *thumbnailPublisher) PublishThumbnailJob(ctx context.Context, manifestID, videoURL string) error {
	return p.produce.PublishThumbnailJob(ctx, produce.ThumbnailJobMessage{
		ManifestID: manifestID,
		VideoURL:   videoURL,
	})
}
