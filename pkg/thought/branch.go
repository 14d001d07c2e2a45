package thought

import (
	"sort"
	"sync"
	"time"
)

// Branch is a named, ordered run of records diverging from the main history.
type Branch struct {
	ID           string    `json:"id"`
	Thoughts     []*Record `json:"thoughts"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Clone returns a copy whose thought slice is detached from the store.
// Records themselves are shared; they are immutable once stored.
func (b *Branch) Clone() *Branch {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Thoughts = append([]*Record(nil), b.Thoughts...)
	return &clone
}

// StoreOption is a functional option for Store configuration.
type StoreOption func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds branches keyed by id, each capped at maxPerBranch records and
// expired by inactivity.
type Store struct {
	mu           sync.RWMutex
	branches     map[string]*Branch
	maxPerBranch int
	now          func() time.Time
}

// NewStore creates a branch store. Per-branch capacities below one are
// clamped to one.
func NewStore(maxPerBranch int, opts ...StoreOption) *Store {
	if maxPerBranch < 1 {
		maxPerBranch = 1
	}
	s := &Store{
		branches:     make(map[string]*Branch),
		maxPerBranch: maxPerBranch,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert appends rec to the branch, creating the branch on first sight of the
// id, and refreshes LastAccessed. Reports whether the branch was created by
// this call. An over-full branch keeps only the most recent maxPerBranch
// records; older ones are dropped silently, never rejected.
func (s *Store) Upsert(branchID string, rec *Record) bool {
	if branchID == "" || rec == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.branches[branchID]
	if !ok {
		b = &Branch{ID: branchID, CreatedAt: now}
		s.branches[branchID] = b
	}
	b.Thoughts = append(b.Thoughts, rec)
	b.LastAccessed = now

	if excess := len(b.Thoughts) - s.maxPerBranch; excess > 0 {
		kept := make([]*Record, s.maxPerBranch)
		copy(kept, b.Thoughts[excess:])
		b.Thoughts = kept
	}
	return !ok
}

// Get returns a detached copy of the branch and refreshes LastAccessed.
// Reading a branch extends its lifetime.
func (s *Store) Get(branchID string) (*Branch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.branches[branchID]
	if !ok {
		return nil, false
	}
	b.LastAccessed = s.now()
	return b.Clone(), true
}

// IDs returns all live branch ids, sorted for deterministic output.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.branches))
	for id := range s.branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of live branches.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.branches)
}

// SweepExpired removes every branch whose LastAccessed predates now-maxAge
// and returns the removed ids, sorted.
func (s *Store) SweepExpired(maxAge time.Duration, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-maxAge)
	var removed []string
	for id, b := range s.branches {
		if b.LastAccessed.Before(cutoff) {
			delete(s.branches, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Clear removes every branch.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = make(map[string]*Branch)
}
