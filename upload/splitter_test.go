package upload

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		chunkSize int64
		wantCount int
		wantLast  int64
	}{
		{"exact multiple", 100, 25, 4, 25},
		{"remainder chunk", 100, 30, 4, 10},
		{"single partial chunk", 10, 30, 1, 10},
		{"single full chunk", 30, 30, 1, 30},
		{"one byte over", 31, 30, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.size, tt.chunkSize)
			if len(chunks) != tt.wantCount {
				t.Fatalf("Split(%d, %d) count = %d, want %d", tt.size, tt.chunkSize, len(chunks), tt.wantCount)
			}

			// Ranges must be contiguous, non-overlapping, and cover [0, size).
			var next int64
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				if c.Start != next {
					t.Errorf("chunk %d starts at %d, want %d", i, c.Start, next)
				}
				if c.Length <= 0 || c.Length > tt.chunkSize {
					t.Errorf("chunk %d has length %d", i, c.Length)
				}
				if c.Status != ChunkStatusPending {
					t.Errorf("chunk %d status = %q, want pending", i, c.Status)
				}
				next = c.End()
			}
			if next != tt.size {
				t.Errorf("chunks cover [0, %d), want [0, %d)", next, tt.size)
			}
			if got := chunks[len(chunks)-1].Length; got != tt.wantLast {
				t.Errorf("last chunk length = %d, want %d", got, tt.wantLast)
			}
		})
	}
}

func TestSplitDegenerate(t *testing.T) {
	if got := Split(0, 30); got != nil {
		t.Errorf("Split(0, 30) = %v, want nil", got)
	}
	if got := Split(100, 0); got != nil {
		t.Errorf("Split(100, 0) = %v, want nil", got)
	}
	if got := Split(-5, 30); got != nil {
		t.Errorf("Split(-5, 30) = %v, want nil", got)
	}
}

func TestChunkPathFormat(t *testing.T) {
	task := NewUploadTask(FileInfo{Filename: "a.mp4", ContentType: "video/mp4", Size: 100}, 30)

	want := task.ID.String() + "/chunk_00003"
	if got := task.ChunkPath(3); got != want {
		t.Errorf("ChunkPath(3) = %q, want %q", got, want)
	}
	if got, want := task.StoragePrefix(), task.ID.String()+"/"; got != want {
		t.Errorf("StoragePrefix() = %q, want %q", got, want)
	}
}
