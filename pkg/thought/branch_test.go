package thought

import (
	"testing"
	"time"
)

func fakeClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func rec(text string, number int) *Record {
	return &Record{Text: text, ThoughtNumber: number, TotalThoughts: 5, NextThoughtNeeded: true}
}

func TestStore_UpsertCreatesLazily(t *testing.T) {
	s := NewStore(10)

	if s.Count() != 0 {
		t.Fatal("expected empty store")
	}

	if created := s.Upsert("x", rec("first", 1)); !created {
		t.Error("expected first upsert to create the branch")
	}
	if created := s.Upsert("x", rec("again", 2)); created {
		t.Error("expected second upsert to extend, not create")
	}

	b, ok := s.Get("x")
	if !ok {
		t.Fatal("expected branch x to exist")
	}
	if len(b.Thoughts) != 2 || b.Thoughts[0].Text != "first" {
		t.Errorf("unexpected branch contents: %+v", b.Thoughts)
	}
	if b.CreatedAt.IsZero() || b.LastAccessed.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_TruncatesToSuffix(t *testing.T) {
	s := NewStore(2)

	s.Upsert("x", rec("one", 1))
	s.Upsert("x", rec("two", 2))
	s.Upsert("x", rec("three", 3))

	b, _ := s.Get("x")
	if len(b.Thoughts) != 2 {
		t.Fatalf("expected 2 thoughts, got %d", len(b.Thoughts))
	}
	// Most recent win, original relative order preserved.
	if b.Thoughts[0].Text != "two" || b.Thoughts[1].Text != "three" {
		t.Errorf("expected [two three], got [%s %s]", b.Thoughts[0].Text, b.Thoughts[1].Text)
	}
}

func TestStore_SweepExpired(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current, clock := fakeClock(start)
	s := NewStore(10, WithClock(clock))

	s.Upsert("y", rec("t", 1))

	*current = start.Add(2 * time.Second)
	removed := s.SweepExpired(time.Second, *current)

	if len(removed) != 1 || removed[0] != "y" {
		t.Errorf("expected removed [y], got %v", removed)
	}
	if s.Count() != 0 {
		t.Error("expected branch y to be gone")
	}
	for _, id := range s.IDs() {
		if id == "y" {
			t.Error("expected y absent from IDs")
		}
	}
}

func TestStore_SweepKeepsFresh(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current, clock := fakeClock(start)
	s := NewStore(10, WithClock(clock))

	s.Upsert("old", rec("a", 1))
	*current = start.Add(500 * time.Millisecond)
	s.Upsert("fresh", rec("b", 1))

	*current = start.Add(1200 * time.Millisecond)
	removed := s.SweepExpired(time.Second, *current)

	if len(removed) != 1 || removed[0] != "old" {
		t.Errorf("expected removed [old], got %v", removed)
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("expected fresh branch to survive")
	}
}

func TestStore_GetExtendsLifetime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current, clock := fakeClock(start)
	s := NewStore(10, WithClock(clock))

	s.Upsert("x", rec("a", 1))

	*current = start.Add(900 * time.Millisecond)
	if _, ok := s.Get("x"); !ok {
		t.Fatal("expected branch x")
	}

	// Without the Get refresh the branch would be 1.8s stale here.
	*current = start.Add(1800 * time.Millisecond)
	removed := s.SweepExpired(time.Second, *current)
	if len(removed) != 0 {
		t.Errorf("expected no removals, got %v", removed)
	}
	if _, ok := s.Get("x"); !ok {
		t.Error("expected read-refreshed branch to survive sweep")
	}
}

func TestStore_IDsSorted(t *testing.T) {
	s := NewStore(10)
	s.Upsert("b", rec("1", 1))
	s.Upsert("a", rec("2", 2))
	s.Upsert("c", rec("3", 3))

	ids := s.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("expected sorted [a b c], got %v", ids)
	}
}

func TestStore_GetReturnsDetachedCopy(t *testing.T) {
	s := NewStore(10)
	s.Upsert("x", rec("a", 1))

	b, _ := s.Get("x")
	b.Thoughts[0] = rec("mutated", 9)
	b.Thoughts = append(b.Thoughts, rec("extra", 10))

	again, _ := s.Get("x")
	if len(again.Thoughts) != 1 || again.Thoughts[0].Text != "a" {
		t.Error("expected store contents unaffected by caller mutation")
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(10)
	s.Upsert("x", rec("a", 1))
	s.Upsert("y", rec("b", 1))

	s.Clear()

	if s.Count() != 0 {
		t.Errorf("expected 0 branches, got %d", s.Count())
	}
}
