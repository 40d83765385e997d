package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/infra"
	"github.com/lumenfilms/lumen-media-service/infra/produce"
	"github.com/lumenfilms/lumen-media-service/repository"
	"github.com/lumenfilms/lumen-media-service/thumbnail"
	amqp "github.com/rabbitmq/amqp091-go"
)

type ThumbnailConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
	generator  *thumbnail.Generator
}

func NewThumbnailConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *ThumbnailConsumer {
	env := infra.Config.EnvConfig
	generator := thumbnail.NewGenerator(
		infra.Minio,
		env.Upload.ThumbnailBucket,
		time.Duration(env.Playback.URLExpire)*time.Second,
	)
	return &ThumbnailConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
		generator:  generator,
	}
}

func (c *ThumbnailConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ThumbnailQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register thumbnail consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Thumbnail Consumer] Started listening on queue: %s", produce.ThumbnailQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Thumbnail Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Thumbnail Consumer] Channel closed")
					return
				}
				c.handleThumbnailJob(ctx, msg)
			}
		}
	}()

	return nil
}

// handleThumbnailJob derives a still for the manifest and attaches it to the
// owning media record. Thumbnails are best-effort: a job that keeps failing
// is dropped rather than requeued forever.
func (c *ThumbnailConsumer) handleThumbnailJob(ctx context.Context, msg amqp.Delivery) {
	var payload produce.ThumbnailJobMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Thumbnail Consumer] Failed to unmarshal thumbnail job")
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Thumbnail Consumer] Processing thumbnail job for manifest %s", payload.ManifestID)

	var thumbnailURL string
	var lastErr error
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		thumbnailURL, lastErr = c.generator.Generate(ctx, payload.ManifestID)
		if lastErr == nil {
			break
		}

		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Thumbnail Consumer] Attempt %d/%d failed: %v", attempt, maxRetries, lastErr)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	if lastErr != nil {
		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Thumbnail Consumer] Failed after %d attempts, dropping job for manifest %s", maxRetries, payload.ManifestID)
		_ = msg.Nack(false, false)
		return
	}

	if err := c.attachToMedia(payload, thumbnailURL); err != nil {
		c.infra.Logger.WarningWithContextf(ctx, "[Thumbnail Consumer] Thumbnail stored but not attached for manifest %s: %v", payload.ManifestID, err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Thumbnail Consumer] Thumbnail ready for manifest %s", payload.ManifestID)
	_ = msg.Ack(false)
}

// attachToMedia resolves the media record owning the manifest and stores the
// thumbnail URL on it. The job may carry the media ID directly; older
// producers only send the manifest ID.
func (c *ThumbnailConsumer) attachToMedia(payload produce.ThumbnailJobMessage, thumbnailURL string) error {
	if payload.MediaID != "" {
		mediaID, err := uuid.Parse(payload.MediaID)
		if err != nil {
			return fmt.Errorf("invalid media ID %q: %w", payload.MediaID, err)
		}
		return c.repository.MediaRepo.UpdateThumbnail(mediaID, thumbnailURL)
	}

	media, err := c.repository.MediaRepo.FindByVideoRef(payload.ManifestID)
	if err != nil {
		return err
	}
	return c.repository.MediaRepo.UpdateThumbnail(media.ID, thumbnailURL)
}
