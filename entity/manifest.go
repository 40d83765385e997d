package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ManifestStatus represents the lifecycle status of a chunk manifest
type ManifestStatus string

const (
	ManifestStatusAssembling ManifestStatus = "ASSEMBLING"
	ManifestStatusReady      ManifestStatus = "READY"
	ManifestStatusFailed     ManifestStatus = "FAILED"
)

// ChunkManifest is the durable record describing how to locate and reassemble
// all chunks of one uploaded file. It is written once, after every chunk has
// been uploaded, and is effectively immutable afterwards. The manifest ID
// doubles as the externally referenced video ID.
type ChunkManifest struct {
	ID               uuid.UUID                      `json:"id" gorm:"type:uuid;primaryKey"`
	OriginalFilename string                         `json:"original_filename" gorm:"type:varchar(512);not null"`
	MimeType         string                         `json:"mime_type" gorm:"type:varchar(255);not null"`
	TotalSize        int64                          `json:"total_size" gorm:"not null"`
	ChunkSize        int64                          `json:"chunk_size" gorm:"not null"`
	ChunkCount       int                            `json:"chunk_count" gorm:"not null"`
	ChunkPaths       datatypes.JSONSlice[string]    `json:"chunk_paths" gorm:"type:jsonb"`
	StorageBucket    string                         `json:"storage_bucket" gorm:"type:varchar(255);not null"`
	Status           ManifestStatus                 `json:"status" gorm:"type:varchar(32);not null;default:'ASSEMBLING'"`
	CreatedAt        time.Time                      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt        time.Time                      `json:"updated_at" gorm:"autoUpdateTime"`
}
