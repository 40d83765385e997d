package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
	"gorm.io/gorm"
)

var ErrMediaNotFound = errors.New("media record not found")

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new media record
func (r *MediaRepository) Create(media *entity.MediaRecord) error {
	return r.db.Create(media).Error
}

// FindByID finds a media record by its ID
func (r *MediaRepository) FindByID(id uuid.UUID) (*entity.MediaRecord, error) {
	var media entity.MediaRecord
	err := r.db.Where("id = ?", id).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// FindByVideoRef finds the media record referencing a manifest or URL
func (r *MediaRepository) FindByVideoRef(videoRef string) (*entity.MediaRecord, error) {
	var media entity.MediaRecord
	err := r.db.Where("video_ref = ?", videoRef).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMediaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// UpdateThumbnail sets the derived thumbnail URL on a media record
func (r *MediaRepository) UpdateThumbnail(id uuid.UUID, thumbnailURL string) error {
	return r.db.Model(&entity.MediaRecord{}).Where("id = ?", id).
		Update("thumbnail_url", thumbnailURL).Error
}

// Delete deletes a media record
func (r *MediaRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.MediaRecord{}, "id = ?", id).Error
}
