package security

import (
	"testing"

	apperr "github.com/gothink/gothink/pkg/errors"
	"github.com/gothink/gothink/pkg/session"
)

func newGate(blocked []string, maxPerMinute int) (*Gate, *session.Tracker) {
	tr := session.NewTracker()
	return NewGate(blocked, maxPerMinute, tr, nil), tr
}

func TestGate_BlockedSubstring(t *testing.T) {
	g, _ := newGate([]string{"forbidden"}, 10)

	err := g.ValidateThought("this contains FORBIDDEN text", "s")
	if err == nil {
		t.Fatal("expected security error")
	}
	if !apperr.IsSecurity(err) {
		t.Errorf("expected security kind, got %v", err)
	}

	if err := g.ValidateThought("perfectly fine", "s"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGate_BlockedRegex(t *testing.T) {
	g, _ := newGate([]string{`secret\s+key`}, 10)

	if err := g.ValidateThought("my SECRET   key is abc", ""); !apperr.IsSecurity(err) {
		t.Errorf("expected security error, got %v", err)
	}
	if err := g.ValidateThought("secretkey without whitespace", ""); err != nil {
		t.Errorf("expected pass, got %v", err)
	}
}

func TestGate_InvalidRegexFallsBackToSubstring(t *testing.T) {
	// "[unclosed" does not compile as a regex and degrades to substring.
	g, _ := newGate([]string{"[unclosed"}, 10)

	if err := g.ValidateThought("text with [UNCLOSED bracket", ""); !apperr.IsSecurity(err) {
		t.Errorf("expected security error, got %v", err)
	}
	if err := g.ValidateThought("no bracket here", ""); err != nil {
		t.Errorf("expected pass, got %v", err)
	}
}

func TestGate_RateLimitBoundary(t *testing.T) {
	g, _ := newGate(nil, 3)

	for i := 0; i < 3; i++ {
		if err := g.ValidateThought("ok", "s"); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	for i := 0; i < 2; i++ {
		err := g.ValidateThought("ok", "s")
		if !apperr.IsRateLimit(err) {
			t.Errorf("call %d past limit: expected rate-limit error, got %v", i+4, err)
		}
	}
}

func TestGate_BlockedCallConsumesNoQuota(t *testing.T) {
	g, tr := newGate([]string{"blocked"}, 1)

	// Pattern rejection happens before the quota check and must not charge
	// the window.
	for i := 0; i < 5; i++ {
		if err := g.ValidateThought("blocked content", "s"); !apperr.IsSecurity(err) {
			t.Fatalf("expected security error, got %v", err)
		}
	}
	if got := tr.Count("s"); got != 0 {
		t.Fatalf("expected untouched window, got %d entries", got)
	}

	if err := g.ValidateThought("clean", "s"); err != nil {
		t.Errorf("expected quota still available, got %v", err)
	}
}

func TestGate_EmptySessionExempt(t *testing.T) {
	g, tr := newGate(nil, 1)

	for i := 0; i < 50; i++ {
		if err := g.ValidateThought("anonymous", ""); err != nil {
			t.Fatalf("anonymous call %d rejected: %v", i+1, err)
		}
	}
	if got := tr.ActiveSessions(); got != 0 {
		t.Errorf("expected no tracked sessions, got %d", got)
	}
}

func TestGate_UpdatePatterns(t *testing.T) {
	g, _ := newGate([]string{"old"}, 10)

	if err := g.ValidateThought("old rule", ""); !apperr.IsSecurity(err) {
		t.Fatal("expected original pattern to block")
	}

	g.UpdatePatterns([]string{"new"})

	if err := g.ValidateThought("old rule", ""); err != nil {
		t.Errorf("expected old pattern gone, got %v", err)
	}
	if err := g.ValidateThought("new rule", ""); !apperr.IsSecurity(err) {
		t.Errorf("expected new pattern to block, got %v", err)
	}
	if got := g.PatternCount(); got != 1 {
		t.Errorf("expected 1 pattern, got %d", got)
	}
}

func TestGate_UpdateQuota(t *testing.T) {
	g, _ := newGate(nil, 2)

	for i := 0; i < 2; i++ {
		if err := g.ValidateThought("ok", "s"); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if err := g.ValidateThought("ok", "s"); !apperr.IsRateLimit(err) {
		t.Fatalf("expected rate limit at old quota, got %v", err)
	}

	g.UpdateQuota(10)
	if err := g.ValidateThought("ok", "s"); err != nil {
		t.Errorf("expected raised quota to admit, got %v", err)
	}

	g.UpdateQuota(0)
	for i := 0; i < 20; i++ {
		if err := g.ValidateThought("ok", "s"); err != nil {
			t.Fatalf("expected zero quota to disable limiting, got %v", err)
		}
	}
}
