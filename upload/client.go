package upload

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the slice of the object storage surface the upload pipeline
// consumes.
type ObjectStore interface {
	Put(ctx context.Context, bucket, path string, data io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, bucket, path string, expire time.Duration) (string, error)
	Delete(ctx context.Context, bucket, path string) error
}

// Logger is the slice of the infra logger the pipeline uses.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// ProgressFunc receives monotonically non-decreasing percentages for one
// task. Values are capped at 90 until the finalize step; 100 is reported
// only on full success.
type ProgressFunc func(percent int)

// uploadProgressCap leaves headroom for the manifest finalize step.
const uploadProgressCap = 90

// ChunkUploadClient uploads a task's chunks strictly sequentially. Sequential
// upload bounds backend load and keeps progress accounting trivial; the cost
// is total upload time, which is acceptable for an admin-side ingest.
type ChunkUploadClient struct {
	store      ObjectStore
	bucket     string
	maxRetries int
	perChunk   time.Duration
	logger     Logger
}

func NewChunkUploadClient(store ObjectStore, bucket string, maxRetries int, perChunkTimeout time.Duration, logger Logger) *ChunkUploadClient {
	return &ChunkUploadClient{
		store:      store,
		bucket:     bucket,
		maxRetries: maxRetries,
		perChunk:   perChunkTimeout,
		logger:     logger,
	}
}

// UploadChunks uploads every chunk of the task from src, reporting progress
// after each chunk. On any chunk's terminal failure the remaining chunks are
// aborted, every chunk uploaded so far is deleted, and a *ChunkUploadError
// carrying the failing index is returned. The ordered path list is returned
// only on full success, index-aligned with task.Chunks.
func (c *ChunkUploadClient) UploadChunks(ctx context.Context, task *UploadTask, src io.ReaderAt, progress ProgressFunc) ([]string, error) {
	total := len(task.Chunks)
	if progress != nil {
		progress(0)
	}

	for i := range task.Chunks {
		chunk := &task.Chunks[i]
		chunk.Status = ChunkStatusUploading
		path := task.ChunkPath(chunk.Index)

		err := Attempt(ctx, c.maxRetries, c.perChunk, func(tryCtx context.Context) error {
			section := io.NewSectionReader(src, chunk.Start, chunk.Length)
			return c.store.Put(tryCtx, c.bucket, path, section, chunk.Length, task.ContentType)
		})
		if err != nil {
			chunk.Status = ChunkStatusFailed
			c.logger.ErrorWithContextf(ctx, err, "[ChunkUpload] Task %s chunk %d/%d failed permanently", task.ID, chunk.Index, total)
			c.cleanup(ctx, task)
			return nil, &ChunkUploadError{Index: chunk.Index, Err: err}
		}

		chunk.Status = ChunkStatusUploaded
		task.UploadedPaths = append(task.UploadedPaths, path)
		if progress != nil {
			progress((chunk.Index + 1) * uploadProgressCap / total)
		}
	}

	c.logger.InfoWithContextf(ctx, "[ChunkUpload] Task %s uploaded %d chunks to bucket %s", task.ID, total, c.bucket)
	return task.UploadedPaths, nil
}

// cleanup deletes every chunk uploaded so far for this task. Compensating
// action, so individual delete failures are logged and skipped.
func (c *ChunkUploadClient) cleanup(ctx context.Context, task *UploadTask) {
	for _, path := range task.UploadedPaths {
		if err := c.store.Delete(ctx, c.bucket, path); err != nil {
			c.logger.WarningWithContextf(ctx, "[ChunkUpload] Task %s cleanup: failed to delete %s: %v", task.ID, path, err)
		}
	}
	task.UploadedPaths = nil
}
