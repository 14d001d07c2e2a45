package state

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestJanitorRunsPeriodically(t *testing.T) {
	j := NewJanitor(10 * time.Millisecond)

	var calls atomic.Int64
	j.Start(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	time.Sleep(60 * time.Millisecond)
	j.Stop()

	if calls.Load() == 0 {
		t.Error("expected at least one cleanup pass")
	}
	if j.Runs() == 0 {
		t.Error("expected run counter to advance")
	}
}

func TestJanitorStopsCleanly(t *testing.T) {
	j := NewJanitor(5 * time.Millisecond)

	var calls atomic.Int64
	j.Start(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	j.Stop()
	after := calls.Load()

	time.Sleep(30 * time.Millisecond)
	if calls.Load() != after {
		t.Error("cleanup ran after Stop")
	}
}

func TestJanitorSurvivesCallbackError(t *testing.T) {
	j := NewJanitor(5 * time.Millisecond)

	var calls atomic.Int64
	j.Start(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return context.DeadlineExceeded
	})

	time.Sleep(30 * time.Millisecond)
	j.Stop()

	if calls.Load() < 2 {
		t.Errorf("expected loop to keep ticking after errors, got %d calls", calls.Load())
	}
}

func TestJanitorStopWithoutStart(t *testing.T) {
	j := NewJanitor(time.Minute)
	// Must not panic or block.
	j.Stop()
}

func TestJanitorDefaultInterval(t *testing.T) {
	j := NewJanitor(0)
	if j.interval != time.Minute {
		t.Errorf("interval = %v, want 1m fallback", j.interval)
	}
}

func TestJanitorRestartsAfterStop(t *testing.T) {
	j := NewJanitor(5 * time.Millisecond)

	var calls atomic.Int64
	tick := func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}

	j.Start(context.Background(), tick)
	time.Sleep(20 * time.Millisecond)
	j.Stop()
	j.Stop()
	stopped := calls.Load()

	j.Start(context.Background(), tick)
	time.Sleep(20 * time.Millisecond)
	j.Stop()

	if calls.Load() <= stopped {
		t.Error("expected restarted janitor to keep ticking")
	}
}
