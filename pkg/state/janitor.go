package state

import (
	"context"
	"sync"
	"time"
)

// Janitor runs a periodic cleanup callback on a background goroutine.
type Janitor struct {
	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	totalRuns int64
}

// NewJanitor creates a janitor. A non-positive interval falls back to one
// minute.
func NewJanitor(interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{interval: interval}
}

// Start launches the cleanup goroutine. The callback runs once per interval;
// an error aborts that pass only, never the loop. A stopped janitor may be
// started again; callers must not start a running one.
func (j *Janitor) Start(parentCtx context.Context, sweepFunc func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(parentCtx)
	done := make(chan struct{})

	j.mu.Lock()
	j.cancel = cancel
	j.done = done
	j.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.mu.Lock()
				j.totalRuns++
				j.mu.Unlock()
				if err := sweepFunc(ctx); err != nil {
					// Log happens in the callback; keep ticking
					continue
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. Safe to call more than
// once, and before Start.
func (j *Janitor) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Runs returns how many cleanup passes have been attempted.
func (j *Janitor) Runs() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.totalRuns
}
