package repository

import (
	"github.com/lumenfilms/lumen-media-service/infra"
)

type Repository struct {
	ManifestRepo *ManifestRepository
	MediaRepo    *MediaRepository
}

var repositoryInstance *Repository

func InitRepository(infra *infra.Infra) *Repository {
	if repositoryInstance != nil {
		return repositoryInstance
	}

	repositoryInstance = &Repository{
		ManifestRepo: NewManifestRepository(infra.Postgres.DB),
		MediaRepo:    NewMediaRepository(infra.Postgres.DB),
	}

	return repositoryInstance
}
