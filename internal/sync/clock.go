package sync

import (
	"context"
	"time"
)

// Clock is the suspend-for-duration primitive pacing the poll loop.
type Clock interface {
	// Wait suspends the caller for d, then returns nil. If ctx is
	// cancelled first it returns ctx.Err() promptly; a cancelled
	// wait never reports success and never leaks its timer.
	Wait(ctx context.Context, d time.Duration) error
}

// SystemClock implements Clock with real timers.
type SystemClock struct{}

func (SystemClock) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
