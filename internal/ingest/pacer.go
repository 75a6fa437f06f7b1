package ingest

import (
	"context"
	"time"
)

// Pacer inserts the fixed pauses between API calls.
type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// PacerFunc is a function adapter for Pacer.
type PacerFunc func(ctx context.Context, d time.Duration) error

func (f PacerFunc) Wait(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerPacer sleeps on a timer and returns early if ctx is done.
type TimerPacer struct{}

// Wait blocks for d or until ctx is canceled.
func (TimerPacer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
