package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
}

// stubStore is an in-memory ObjectStore that can be told to fail specific
// paths a number of times.
type stubStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	puts     []string
	deletes  []string
	failures map[string]int // remaining Put failures per path

	presignErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		objects:  make(map[string][]byte),
		failures: make(map[string]int),
	}
}

func (s *stubStore) Put(ctx context.Context, bucket, path string, data io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, path)
	if n := s.failures[path]; n > 0 {
		s.failures[path] = n - 1
		return fmt.Errorf("injected failure for %s", path)
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if int64(len(body)) != size {
		return fmt.Errorf("size mismatch for %s: read %d, declared %d", path, len(body), size)
	}
	s.objects[path] = body
	return nil
}

func (s *stubStore) PresignedURL(ctx context.Context, bucket, path string, expire time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://signed.example/" + path, nil
}

func (s *stubStore) Delete(ctx context.Context, bucket, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, path)
	delete(s.objects, path)
	return nil
}

func (s *stubStore) stored(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[path]
	return b, ok
}

func testSource(size int) *bytes.Reader {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return bytes.NewReader(data)
}

func TestUploadChunksSuccess(t *testing.T) {
	store := newStubStore()
	client := NewChunkUploadClient(store, "media", 2, 0, nopLogger{})

	task := NewUploadTask(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 100}, 30)
	src := testSource(100)

	var reported []int
	paths, err := client.UploadChunks(context.Background(), task, src, func(p int) {
		reported = append(reported, p)
	})
	if err != nil {
		t.Fatalf("UploadChunks() error: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(paths))
	}

	// Paths are index-aligned with chunks and the stored bytes match each
	// chunk's declared range.
	for i, path := range paths {
		if want := task.ChunkPath(i); path != want {
			t.Errorf("paths[%d] = %q, want %q", i, path, want)
		}
		body, ok := store.stored(path)
		if !ok {
			t.Fatalf("chunk %d not stored", i)
		}
		if int64(len(body)) != task.Chunks[i].Length {
			t.Errorf("chunk %d stored %d bytes, want %d", i, len(body), task.Chunks[i].Length)
		}
		if task.Chunks[i].Status != ChunkStatusUploaded {
			t.Errorf("chunk %d status = %q, want uploaded", i, task.Chunks[i].Status)
		}
	}

	// Progress is monotonic, starts at 0, and never exceeds the 90 cap here.
	if len(reported) == 0 || reported[0] != 0 {
		t.Fatalf("progress did not start at 0: %v", reported)
	}
	for i := 1; i < len(reported); i++ {
		if reported[i] < reported[i-1] {
			t.Errorf("progress regressed: %v", reported)
		}
		if reported[i] > uploadProgressCap {
			t.Errorf("progress %d exceeds cap %d", reported[i], uploadProgressCap)
		}
	}
	if last := reported[len(reported)-1]; last != uploadProgressCap {
		t.Errorf("final chunk progress = %d, want %d", last, uploadProgressCap)
	}
}

func TestUploadChunksRetriesTransientFailure(t *testing.T) {
	store := newStubStore()
	client := NewChunkUploadClient(store, "media", 2, 0, nopLogger{})

	task := NewUploadTask(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 60}, 30)
	store.failures[task.ChunkPath(1)] = 1

	paths, err := client.UploadChunks(context.Background(), task, testSource(60), nil)
	if err != nil {
		t.Fatalf("UploadChunks() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if _, ok := store.stored(task.ChunkPath(1)); !ok {
		t.Error("chunk 1 missing after retry")
	}
}

func TestUploadChunksCleansUpOnTerminalFailure(t *testing.T) {
	store := newStubStore()
	client := NewChunkUploadClient(store, "media", 1, 0, nopLogger{})

	task := NewUploadTask(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 100}, 30)
	// Chunk 2 fails on every try, exhausting the budget.
	store.failures[task.ChunkPath(2)] = 10

	paths, err := client.UploadChunks(context.Background(), task, testSource(100), nil)
	if paths != nil {
		t.Fatalf("got paths %v on failure, want nil", paths)
	}

	var chunkErr *ChunkUploadError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("expected ChunkUploadError, got %v", err)
	}
	if chunkErr.Index != 2 {
		t.Errorf("failing index = %d, want 2", chunkErr.Index)
	}
	if task.Chunks[2].Status != ChunkStatusFailed {
		t.Errorf("chunk 2 status = %q, want failed", task.Chunks[2].Status)
	}

	// Chunks 0 and 1 were uploaded and must have been deleted again.
	for i := 0; i < 2; i++ {
		if _, ok := store.stored(task.ChunkPath(i)); ok {
			t.Errorf("chunk %d still in store after cleanup", i)
		}
	}
	if len(store.deletes) != 2 {
		t.Errorf("deleted %d objects, want 2: %v", len(store.deletes), store.deletes)
	}
	// Chunk 3 was never attempted.
	for _, p := range store.puts {
		if strings.HasSuffix(p, "chunk_00003") {
			t.Error("chunk 3 uploaded after earlier terminal failure")
		}
	}
	if task.UploadedPaths != nil {
		t.Errorf("UploadedPaths = %v after cleanup, want nil", task.UploadedPaths)
	}
}
