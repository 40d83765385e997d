package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumenfilms/lumen-media-service/infra"
	"github.com/lumenfilms/lumen-media-service/infra/produce"
	"github.com/lumenfilms/lumen-media-service/repository"
	"github.com/lumenfilms/lumen-media-service/thumbnail"
	amqp "github.com/rabbitmq/amqp091-go"
)

type CleanupConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *CleanupConsumer {
	return &CleanupConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ChunkCleanupQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register chunk cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening on queue: %s", produce.ChunkCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleChunkCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

// handleChunkCleanup deletes every chunk under a removed manifest's storage
// prefix. The manifest row is already gone when this runs, so a message that
// cannot be processed is requeued to avoid orphaning the objects.
func (c *CleanupConsumer) handleChunkCleanup(ctx context.Context, msg amqp.Delivery) {
	var payload produce.ChunkCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal cleanup message")
		_ = msg.Nack(false, false)
		return
	}
	if payload.Bucket == "" || payload.Prefix == "" {
		c.infra.Logger.ErrorWithContextf(ctx, nil, "[Cleanup Consumer] Cleanup message missing bucket or prefix for manifest %s", payload.ManifestID)
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Deleting chunks under %s/%s for manifest %s", payload.Bucket, payload.Prefix, payload.ManifestID)

	var lastErr error
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.infra.Minio.DeleteObjectsWithPrefix(ctx, payload.Bucket, payload.Prefix)
		if lastErr == nil {
			break
		}

		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Cleanup Consumer] Attempt %d/%d failed: %v", attempt, maxRetries, lastErr)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	if lastErr != nil {
		c.infra.Logger.ErrorWithContextf(ctx, lastErr, "[Cleanup Consumer] Failed after %d attempts, requeueing message for manifest %s", maxRetries, payload.ManifestID)
		_ = msg.Nack(false, true)
		return
	}

	// Best-effort: remove the derived thumbnail alongside the chunks.
	thumbBucket := c.infra.Config.EnvConfig.Upload.ThumbnailBucket
	if err := c.infra.Minio.Delete(ctx, thumbBucket, thumbnail.ThumbnailPath(payload.ManifestID)); err != nil {
		c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Failed to delete thumbnail for manifest %s: %v", payload.ManifestID, err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Cleaned up chunks for manifest %s", payload.ManifestID)
	_ = msg.Ack(false)
}
