package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/filehub/uploader/internal/uploadsdk"
)

// retryPolicy wraps one transfer attempt with bounded retry and a linearly
// increasing backoff delay. maxRetries of 2 means at most 3 attempts.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
}

// run executes fn until it succeeds, fails permanently, or exhausts retries.
// Cancellation short-circuits immediately and is returned as context.Canceled,
// never as the wrapped attempt error.
func (p retryPolicy) run(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= p.maxRetries+1; attempt++ {
		if ctx.Err() != nil {
			return context.Canceled
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if uploadsdk.IsCancellation(err) || ctx.Err() != nil {
			return context.Canceled
		}

		lastErr = err
		if !uploadsdk.IsTransient(err) || attempt > p.maxRetries {
			return lastErr
		}

		delay := p.baseDelay * time.Duration(attempt)
		slog.Warn("upload attempt failed, retrying", "file", label, "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return context.Canceled
		case <-time.After(delay):
		}
	}

	return lastErr
}
