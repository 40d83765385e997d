package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind discriminates how a media record's video is hosted
type SourceKind string

const (
	SourceKindYouTube SourceKind = "youtube"
	SourceKindChunked SourceKind = "chunked"
	SourceKindFile    SourceKind = "file"
)

// MediaRecord is the site-facing media item. For chunked videos VideoRef
// holds the manifest ID; for YouTube it holds the video ID; for plain files
// it holds the object URL.
type MediaRecord struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string     `json:"title" gorm:"type:varchar(512);not null"`
	Description  string     `json:"description" gorm:"type:text"`
	SourceKind   SourceKind `json:"source_kind" gorm:"type:varchar(32);not null"`
	VideoRef     string     `json:"video_ref" gorm:"type:varchar(1024);not null"`
	ThumbnailURL string     `json:"thumbnail_url" gorm:"type:varchar(1024)"`
	OwnerID      uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}
