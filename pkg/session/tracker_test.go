package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTracker_RateLimitBoundary(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 3; i++ {
		if !tr.RecordAndCheck("s", 3) {
			t.Fatalf("call %d: expected allowed", i+1)
		}
	}

	// The 4th is rejected, and the rejection must not consume quota: the
	// 5th fails too instead of sneaking in behind a phantom entry.
	if tr.RecordAndCheck("s", 3) {
		t.Error("4th call: expected rejected")
	}
	if tr.RecordAndCheck("s", 3) {
		t.Error("5th call: expected rejected")
	}
	if got := tr.Count("s"); got != 3 {
		t.Errorf("expected window count 3, got %d", got)
	}
}

func TestTracker_EmptySessionExempt(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 100; i++ {
		if !tr.RecordAndCheck("", 1) {
			t.Fatal("anonymous calls must never be limited")
		}
	}
	if got := tr.ActiveSessions(); got != 0 {
		t.Errorf("expected no tracked sessions, got %d", got)
	}
}

func TestTracker_WindowExpiry(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := start
	tr := NewTracker(WithClock(func() time.Time { return current }))

	for i := 0; i < 3; i++ {
		if !tr.RecordAndCheck("s", 3) {
			t.Fatalf("call %d: expected allowed", i+1)
		}
	}
	if tr.RecordAndCheck("s", 3) {
		t.Fatal("expected rejection at limit")
	}

	// After the window slides past the old entries, capacity frees up.
	current = start.Add(61 * time.Second)
	if !tr.RecordAndCheck("s", 3) {
		t.Error("expected allowed after window expiry")
	}
	if got := tr.Count("s"); got != 1 {
		t.Errorf("expected 1 in-window entry, got %d", got)
	}
}

func TestTracker_ConcurrentRace(t *testing.T) {
	const limit = 3
	tr := NewTracker()

	var allowed int64
	var wg sync.WaitGroup
	startCh := make(chan struct{})

	for i := 0; i < limit+5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-startCh
			if tr.RecordAndCheck("race", limit) {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}

	close(startCh)
	wg.Wait()

	if allowed != limit {
		t.Errorf("expected exactly %d acceptances, got %d", limit, allowed)
	}
}

func TestTracker_IndependentSessions(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		if !tr.RecordAndCheck(id, 1) {
			t.Errorf("session %s: first call should pass", id)
		}
		if tr.RecordAndCheck(id, 1) {
			t.Errorf("session %s: second call should be limited", id)
		}
	}
	if got := tr.ActiveSessions(); got != 5 {
		t.Errorf("expected 5 tracked sessions, got %d", got)
	}
}

func TestTracker_SweepIdle(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := start
	tr := NewTracker(WithClock(func() time.Time { return current }))

	tr.RecordAndCheck("stale", 10)
	current = start.Add(30 * time.Minute)
	tr.RecordAndCheck("active", 10)

	current = start.Add(90 * time.Minute)
	removed := tr.SweepIdle(time.Hour, current)

	if removed != 1 {
		t.Errorf("expected 1 removed session, got %d", removed)
	}
	if got := tr.ActiveSessions(); got != 1 {
		t.Errorf("expected 1 surviving session, got %d", got)
	}
}

func TestTracker_SweepCannotOrphanInFlightRecord(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		var mu sync.Mutex
		current := base
		tr := NewTracker(WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		}))

		// Seed a session whose last access is two hours stale.
		tr.RecordAndCheck("s", 0)
		mu.Lock()
		current = base.Add(2 * time.Hour)
		mu.Unlock()

		// Race a fresh record against a sweep of the stale entry. If the
		// sweep deletes the entry mid-record, the recorded timestamp lands
		// in an orphan and the window under-counts.
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.RecordAndCheck("s", 1)
		}()
		go func() {
			defer wg.Done()
			tr.SweepIdle(time.Hour, base.Add(2*time.Hour))
		}()
		wg.Wait()

		// Whichever side won, exactly one in-window admission exists, so a
		// second call in the same window must be rejected.
		if tr.RecordAndCheck("s", 1) {
			t.Fatalf("iteration %d: over-admitted after concurrent sweep", i)
		}
	}
}

func TestTracker_UnlimitedStillTracks(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 10; i++ {
		if !tr.RecordAndCheck("s", 0) {
			t.Fatal("expected allowed with quota disabled")
		}
	}
	if got := tr.Count("s"); got != 10 {
		t.Errorf("expected 10 recorded entries, got %d", got)
	}
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker()
	tr.RecordAndCheck("a", 5)
	tr.RecordAndCheck("b", 5)

	tr.Clear()

	if got := tr.ActiveSessions(); got != 0 {
		t.Errorf("expected 0 sessions after clear, got %d", got)
	}
}
