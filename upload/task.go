package upload

import (
	"fmt"

	"github.com/google/uuid"
)

// UploadTask is the transient, session-scoped state of one chunked upload.
// UploadedPaths[i] always corresponds to Chunks[i]; playback reconstruction
// depends on this positional order, not on any embedded sequence number.
type UploadTask struct {
	ID            uuid.UUID
	Info          FileInfo
	ContentType   string // resolved, never application/octet-stream for known types
	ChunkSize     int64
	Chunks        []Chunk
	UploadedPaths []string
}

func NewUploadTask(info FileInfo, chunkSize int64) *UploadTask {
	return &UploadTask{
		ID:          uuid.New(),
		Info:        info,
		ContentType: ResolveContentType(info),
		ChunkSize:   chunkSize,
		Chunks:      Split(info.Size, chunkSize),
	}
}

// ChunkPath derives the storage path for one chunk. Paths are deterministic
// from the task ID and chunk index so they never collide across tasks and
// remain reproducible for cleanup.
func (t *UploadTask) ChunkPath(index int) string {
	return fmt.Sprintf("%s/chunk_%05d", t.ID, index)
}

// StoragePrefix is the common prefix of every chunk path for this task.
func (t *UploadTask) StoragePrefix() string {
	return t.ID.String() + "/"
}
