package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/entity"
	"gorm.io/datatypes"
)

type nopLogger struct{}

func (nopLogger) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
}

type stubManifestStore struct {
	manifests map[uuid.UUID]*entity.ChunkManifest
	finds     int
}

func (s *stubManifestStore) FindByID(id uuid.UUID) (*entity.ChunkManifest, error) {
	s.finds++
	m, ok := s.manifests[id]
	if !ok {
		return nil, ErrManifestNotFound
	}
	return m, nil
}

type stubSigner struct {
	err   error
	calls []string
}

func (s *stubSigner) PresignedURL(ctx context.Context, bucket, path string, expire time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, path)
	return "https://signed.example/" + bucket + "/" + path, nil
}

type stubCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *stubCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func readyManifest(id uuid.UUID, paths ...string) *entity.ChunkManifest {
	return &entity.ChunkManifest{
		ID:            id,
		ChunkPaths:    datatypes.NewJSONSlice(paths),
		ChunkCount:    len(paths),
		StorageBucket: "media",
		Status:        entity.ManifestStatusReady,
	}
}

func TestResolvePlayableChunksOrdering(t *testing.T) {
	id := uuid.New()
	store := &stubManifestStore{manifests: map[uuid.UUID]*entity.ChunkManifest{
		id: readyManifest(id, id.String()+"/chunk_00000", id.String()+"/chunk_00001", id.String()+"/chunk_00002"),
	}}
	r := NewResolver(store, &stubSigner{}, newStubCache(), nopLogger{}, time.Hour)

	urls, err := r.ResolvePlayableChunks(context.Background(), id)
	if err != nil {
		t.Fatalf("ResolvePlayableChunks() error: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("got %d urls, want 3", len(urls))
	}
	for i, u := range urls {
		want := "https://signed.example/media/" + id.String() + "/chunk_0000" + string(rune('0'+i))
		if u != want {
			t.Errorf("urls[%d] = %q, want %q", i, u, want)
		}
	}
}

func TestResolvePlayableChunksNotFound(t *testing.T) {
	store := &stubManifestStore{manifests: map[uuid.UUID]*entity.ChunkManifest{}}
	r := NewResolver(store, &stubSigner{}, newStubCache(), nopLogger{}, time.Hour)

	_, err := r.ResolvePlayableChunks(context.Background(), uuid.New())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Errorf("ResolvePlayableChunks() = %v, want ErrManifestNotFound", err)
	}
}

func TestResolvePlayableChunksEmptyManifest(t *testing.T) {
	id := uuid.New()
	store := &stubManifestStore{manifests: map[uuid.UUID]*entity.ChunkManifest{
		id: readyManifest(id),
	}}
	r := NewResolver(store, &stubSigner{}, newStubCache(), nopLogger{}, time.Hour)

	// A manifest with no chunks is "nothing to play", not an error.
	urls, err := r.ResolvePlayableChunks(context.Background(), id)
	if err != nil {
		t.Fatalf("ResolvePlayableChunks() error: %v", err)
	}
	if urls == nil || len(urls) != 0 {
		t.Errorf("got %v, want empty non-nil slice", urls)
	}
}

func TestResolvePlayableChunksCaching(t *testing.T) {
	id := uuid.New()
	store := &stubManifestStore{manifests: map[uuid.UUID]*entity.ChunkManifest{
		id: readyManifest(id, id.String()+"/chunk_00000"),
	}}
	cache := newStubCache()
	r := NewResolver(store, &stubSigner{}, cache, nopLogger{}, time.Hour)

	first, err := r.ResolvePlayableChunks(context.Background(), id)
	if err != nil {
		t.Fatalf("first resolve error: %v", err)
	}
	second, err := r.ResolvePlayableChunks(context.Background(), id)
	if err != nil {
		t.Fatalf("second resolve error: %v", err)
	}
	if store.finds != 1 {
		t.Errorf("manifest store hit %d times, want 1 (second resolve should be cached)", store.finds)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("cached result %v differs from first %v", second, first)
	}

	// The cache entry must not outlive the signed URLs.
	ttl := cache.ttls["playback:chunks:"+id.String()]
	if ttl != 30*time.Minute {
		t.Errorf("cache ttl = %v, want half of url expiry (30m)", ttl)
	}
}

func TestResolvePlayableChunksSignerFailure(t *testing.T) {
	id := uuid.New()
	store := &stubManifestStore{manifests: map[uuid.UUID]*entity.ChunkManifest{
		id: readyManifest(id, id.String()+"/chunk_00000"),
	}}
	r := NewResolver(store, &stubSigner{err: errors.New("signer down")}, newStubCache(), nopLogger{}, time.Hour)

	if _, err := r.ResolvePlayableChunks(context.Background(), id); err == nil {
		t.Error("ResolvePlayableChunks() = nil, want signer error")
	}
}
