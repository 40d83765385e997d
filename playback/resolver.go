package playback

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
	"github.com/lumenfilms/lumen-media-service/repository"
)

// ErrManifestNotFound is returned when no manifest row exists for an ID.
var ErrManifestNotFound = repository.ErrManifestNotFound

// ManifestStore is the slice of the manifest repository the resolver consumes.
type ManifestStore interface {
	FindByID(id uuid.UUID) (*entity.ChunkManifest, error)
}

// URLSigner issues fetchable URLs for stored chunk paths.
type URLSigner interface {
	PresignedURL(ctx context.Context, bucket, path string, expire time.Duration) (string, error)
}

// Cache is the slice of the Redis client used to memoize resolved URL lists.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Logger matches the infra logger surface.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// Resolver fetches a chunk manifest and resolves each chunk path to a
// fetchable URL, preserving order. Resolved lists are cached for half the
// presign lifetime so cached URLs never outlive their signatures.
type Resolver struct {
	manifests ManifestStore
	signer    URLSigner
	cache     Cache
	logger    Logger
	urlExpire time.Duration
}

func NewResolver(manifests ManifestStore, signer URLSigner, cache Cache, logger Logger, urlExpire time.Duration) *Resolver {
	return &Resolver{
		manifests: manifests,
		signer:    signer,
		cache:     cache,
		logger:    logger,
		urlExpire: urlExpire,
	}
}

// ResolvePlayableChunks returns the ordered chunk URLs for a manifest. A
// manifest with no chunk paths resolves to an empty list and a nil error:
// "nothing to play" is a distinct condition from ErrManifestNotFound.
func (r *Resolver) ResolvePlayableChunks(ctx context.Context, manifestID uuid.UUID) ([]string, error) {
	cacheKey := "playback:chunks:" + manifestID.String()

	if r.cache != nil {
		if cached, ok, err := r.cache.Get(ctx, cacheKey); err == nil && ok {
			var urls []string
			if err := json.Unmarshal([]byte(cached), &urls); err == nil {
				return urls, nil
			}
		}
	}

	manifest, err := r.manifests.FindByID(manifestID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(manifest.ChunkPaths))
	for _, path := range manifest.ChunkPaths {
		u, err := r.signer.PresignedURL(ctx, manifest.StorageBucket, path, r.urlExpire)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	if r.cache != nil && len(urls) > 0 {
		if encoded, err := json.Marshal(urls); err == nil {
			if err := r.cache.Set(ctx, cacheKey, string(encoded), r.urlExpire/2); err != nil {
				r.logger.WarningWithContextf(ctx, "[Resolver] Failed to cache chunk URLs for %s: %v", manifestID, err)
			}
		}
	}

	r.logger.InfoWithContextf(ctx, "[Resolver] Manifest %s resolved to %d chunk URLs", manifestID, len(urls))
	return urls, nil
}

// Manifest returns the raw manifest row.
func (r *Resolver) Manifest(manifestID uuid.UUID) (*entity.ChunkManifest, error) {
	return r.manifests.FindByID(manifestID)
}
