package upload

import (
	"fmt"

	"github.com/lumenfilms/lumen-media-service/entity"
	"gorm.io/datatypes"
)

// ManifestStore is the slice of the manifest repository the writer consumes.
type ManifestStore interface {
	Create(manifest *entity.ChunkManifest) error
}

// ManifestWriter persists one ChunkManifest row per completed upload task.
type ManifestWriter struct {
	store ManifestStore
}

func NewManifestWriter(store ManifestStore) *ManifestWriter {
	return &ManifestWriter{store: store}
}

// Write inserts a ready manifest for a fully uploaded task. The manifest is
// written exactly once, only after every chunk uploaded; a partially
// assembled manifest is never visible to readers.
func (w *ManifestWriter) Write(task *UploadTask, bucket string, paths []string) (*entity.ChunkManifest, error) {
	manifest := &entity.ChunkManifest{
		ID:               task.ID,
		OriginalFilename: task.Info.Filename,
		MimeType:         task.ContentType,
		TotalSize:        task.Info.Size,
		ChunkSize:        task.ChunkSize,
		ChunkCount:       len(paths),
		ChunkPaths:       datatypes.NewJSONSlice(paths),
		StorageBucket:    bucket,
		Status:           entity.ManifestStatusReady,
	}

	if err := w.store.Create(manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestWriteFailed, err)
	}
	return manifest, nil
}
