package upload

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAttemptSucceedsAfterTransientFailures(t *testing.T) {
	errTransient := errors.New("transient")
	calls := 0
	err := Attempt(context.Background(), 3, 0, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Attempt() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestAttemptExhaustsBudget(t *testing.T) {
	errPersistent := errors.New("persistent")
	calls := 0
	err := Attempt(context.Background(), 2, 0, func(ctx context.Context) error {
		calls++
		return errPersistent
	})
	if !errors.Is(err, errPersistent) {
		t.Fatalf("Attempt() = %v, want %v", err, errPersistent)
	}
	// 1 initial try + 2 retries.
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestAttemptPerTryTimeout(t *testing.T) {
	calls := 0
	err := Attempt(context.Background(), 1, 10*time.Millisecond, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	if err == nil {
		t.Fatal("Attempt() = nil, want deadline error")
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestAttemptStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Attempt(ctx, 5, 0, func(ctx context.Context) error {
		calls++
		return errors.New("never retried")
	})
	if err == nil {
		t.Fatal("Attempt() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times with cancelled context, want 1", calls)
	}
}
