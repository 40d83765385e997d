package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
	"gorm.io/gorm"
)

// ErrManifestNotFound is returned when no manifest row exists for an ID.
var ErrManifestNotFound = errors.New("manifest not found")

type ManifestRepository struct {
	db *gorm.DB
}

func NewManifestRepository(db *gorm.DB) *ManifestRepository {
	return &ManifestRepository{db: db}
}

// Create inserts a new chunk manifest row
func (r *ManifestRepository) Create(manifest *entity.ChunkManifest) error {
	return r.db.Create(manifest).Error
}

// FindByID finds a manifest by its ID
func (r *ManifestRepository) FindByID(id uuid.UUID) (*entity.ChunkManifest, error) {
	var manifest entity.ChunkManifest
	err := r.db.Where("id = ?", id).First(&manifest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrManifestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &manifest, nil
}

// UpdateStatus updates the status of a manifest
func (r *ManifestRepository) UpdateStatus(id uuid.UUID, status entity.ManifestStatus) error {
	return r.db.Model(&entity.ChunkManifest{}).Where("id = ?", id).
		Update("status", status).Error
}

// Delete deletes a manifest row
func (r *ManifestRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.ChunkManifest{}, "id = ?", id).Error
}
