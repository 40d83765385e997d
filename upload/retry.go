package upload

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Attempt runs fn up to 1+maxRetries times with exponential backoff, giving
// each try its own timeout. The retry budget is a bounded count, not
// unbounded wall-clock backoff, so a flaky backend can't hang a task forever.
func Attempt(ctx context.Context, maxRetries int, perTryTimeout time.Duration, fn func(ctx context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries)),
		ctx,
	)

	return backoff.Retry(func() error {
		tryCtx := ctx
		if perTryTimeout > 0 {
			var cancel context.CancelFunc
			tryCtx, cancel = context.WithTimeout(ctx, perTryTimeout)
			defer cancel()
		}
		return fn(tryCtx)
	}, policy)
}
