package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MediaExchange = "media.exchange"

	// ThumbnailQueue carries jobs to derive a thumbnail for an ingested video
	ThumbnailQueue      = "media.thumbnail"
	ThumbnailRoutingKey = "media.thumbnail"

	// ChunkCleanupQueue carries jobs to delete all chunks of a removed manifest
	ChunkCleanupQueue      = "media.chunk_cleanup"
	ChunkCleanupRoutingKey = "media.chunk_cleanup"
)

// ThumbnailJobMessage asks the worker to derive a representative still for a
// chunked video and attach it to the media record.
type ThumbnailJobMessage struct {
	ManifestID string `json:"manifest_id"`
	MediaID    string `json:"media_id"`
	VideoURL   string `json:"video_url"` // first chunk's URL, enough for a frame grab
	Timestamp  int64  `json:"timestamp"`
}

// ChunkCleanupMessage asks the worker to delete every chunk object under an
// upload's storage prefix.
type ChunkCleanupMessage struct {
	ManifestID string `json:"manifest_id"`
	Bucket     string `json:"bucket"`
	Prefix     string `json:"prefix"`
	Timestamp  int64  `json:"timestamp"`
}

// MediaProduceService handles publishing messages for async media processing
type MediaProduceService struct {
	channel *amqp.Channel
}

func InitMediaProduceService(channel *amqp.Channel) *MediaProduceService {
	service := &MediaProduceService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		MediaExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Media exchange: " + err.Error())
	}

	for queue, key := range map[string]string{
		ThumbnailQueue:    ThumbnailRoutingKey,
		ChunkCleanupQueue: ChunkCleanupRoutingKey,
	} {
		_, err = channel.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			panic("Failed to declare queue " + queue + ": " + err.Error())
		}

		err = channel.QueueBind(queue, key, MediaExchange, false, nil)
		if err != nil {
			panic("Failed to bind queue " + queue + ": " + err.Error())
		}
	}

	return service
}

// PublishThumbnailJob publishes a thumbnail derivation job
func (s *MediaProduceService) PublishThumbnailJob(ctx context.Context, msg ThumbnailJobMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, ThumbnailRoutingKey, msg)
}

// PublishChunkCleanup publishes a chunk deletion job for a removed manifest
func (s *MediaProduceService) PublishChunkCleanup(ctx context.Context, msg ChunkCleanupMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, ChunkCleanupRoutingKey, msg)
}

func (s *MediaProduceService) publish(ctx context.Context, routingKey string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		MediaExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
