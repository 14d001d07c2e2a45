// Package session tracks per-session activity inside a sliding window and
// makes atomic allow-and-record rate decisions.
package session

import (
	"sync"
	"time"
)

// Window is the sliding interval rate decisions count against.
const Window = time.Minute

// activity is the per-session state. Its mutex makes the check-and-record
// sequence atomic for one session without serializing unrelated sessions.
type activity struct {
	mu         sync.Mutex
	entries    []time.Time
	lastAccess time.Time
}

// prune drops entries older than the window. Called with mu held.
func (a *activity) prune(now time.Time) {
	cutoff := now.Add(-Window)
	kept := a.entries[:0]
	for _, ts := range a.entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	a.entries = kept
}

// TrackerOption is a functional option for Tracker configuration.
type TrackerOption func(*Tracker)

// WithClock overrides the tracker's time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Tracker holds sliding-window activity for every known session.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]*activity
	now      func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		sessions: make(map[string]*activity),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordAndCheck reports whether the session may act now and, only if
// allowed, records the action in its window. Two concurrent calls for the
// same session can never both be admitted past the limit. An empty session
// id is exempt: always allowed, never recorded, never creates an entry. A
// non-positive maxPerMinute disables the quota but still records activity.
func (t *Tracker) RecordAndCheck(sessionID string, maxPerMinute int) bool {
	if sessionID == "" {
		return true
	}

	for {
		a := t.acquire(sessionID)

		// Re-check membership under the map lock: a sweep may have
		// removed the entry between acquire and here, and recording into
		// it would strand the timestamp in an orphan. Holding the read
		// lock keeps SweepIdle out for the rest of the call; lock order
		// (t.mu, then a.mu) matches the sweep.
		t.mu.RLock()
		if t.sessions[sessionID] != a {
			t.mu.RUnlock()
			continue
		}

		a.mu.Lock()
		now := t.now()
		a.prune(now)
		a.lastAccess = now

		allowed := true
		if maxPerMinute > 0 && len(a.entries) >= maxPerMinute {
			// Rejected calls must not consume quota.
			allowed = false
		} else {
			a.entries = append(a.entries, now)
		}
		a.mu.Unlock()
		t.mu.RUnlock()
		return allowed
	}
}

// Count returns the number of in-window actions for a session.
func (t *Tracker) Count(sessionID string) int {
	if sessionID == "" {
		return 0
	}

	t.mu.RLock()
	a, ok := t.sessions[sessionID]
	t.mu.RUnlock()
	if !ok {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.prune(t.now())
	return len(a.entries)
}

// ActiveSessions returns the number of tracked sessions.
func (t *Tracker) ActiveSessions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// SweepIdle removes sessions whose last access predates now-maxIdle and
// returns how many were removed.
func (t *Tracker) SweepIdle(maxIdle time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := now.Add(-maxIdle)
	removed := 0
	for id, a := range t.sessions {
		a.mu.Lock()
		stale := a.lastAccess.Before(cutoff)
		a.mu.Unlock()
		if stale {
			delete(t.sessions, id)
			removed++
		}
	}
	return removed
}

// Clear drops all tracked sessions.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[string]*activity)
}

// acquire returns the session's activity, creating it on first use.
func (t *Tracker) acquire(sessionID string) *activity {
	t.mu.RLock()
	a, ok := t.sessions[sessionID]
	t.mu.RUnlock()
	if ok {
		return a
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.sessions[sessionID]; ok {
		return a
	}
	a = &activity{}
	t.sessions[sessionID] = a
	return a
}
