// Package security enforces content policy and per-session quotas in front
// of the state manager.
package security

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	apperr "github.com/gothink/gothink/pkg/errors"
	"github.com/gothink/gothink/pkg/session"
)

// gateLogger is the minimal logger interface used by Gate.
type gateLogger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// nopGateLogger is a no-op logger.
type nopGateLogger struct{}

func (n *nopGateLogger) Debug(msg string, args ...any) {}
func (n *nopGateLogger) Warn(msg string, args ...any)  {}

// pattern is one compiled blocked pattern: a case-insensitive regex when the
// source compiles as one, otherwise a case-insensitive substring.
type pattern struct {
	source string
	re     *regexp.Regexp
	substr string
}

func (p pattern) matches(text string) bool {
	if p.re != nil {
		return p.re.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), p.substr)
}

func compilePatterns(sources []string) []pattern {
	compiled := make([]pattern, 0, len(sources))
	for _, src := range sources {
		if src == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + src); err == nil {
			compiled = append(compiled, pattern{source: src, re: re})
			continue
		}
		compiled = append(compiled, pattern{source: src, substr: strings.ToLower(src)})
	}
	return compiled
}

// Gate validates thought content and enforces the per-session quota. Checks
// run in a fixed order: blocked patterns first, quota second, so a
// policy-rejected call never consumes quota.
type Gate struct {
	mu           sync.RWMutex
	patterns     []pattern
	tracker      *session.Tracker
	maxPerMinute int
	logger       gateLogger
}

// NewGate creates a gate over the given tracker. blocked holds the
// configured pattern sources; maxPerMinute <= 0 disables the quota.
func NewGate(blocked []string, maxPerMinute int, tracker *session.Tracker, logger gateLogger) *Gate {
	if logger == nil {
		logger = &nopGateLogger{}
	}
	return &Gate{
		patterns:     compilePatterns(blocked),
		tracker:      tracker,
		maxPerMinute: maxPerMinute,
		logger:       logger,
	}
}

// ValidateThought rejects text matching a blocked pattern, then rejects
// sessions over quota. On success the session's window has been charged
// exactly once; recording happens inside the tracker's check, never as a
// separate step.
func (g *Gate) ValidateThought(text, sessionID string) error {
	if src, hit := g.match(text); hit {
		g.logger.Warn("blocked thought content",
			"pattern", src,
			"session_id", sessionID,
		)
		return apperr.NewSecurity("BLOCKED_CONTENT", "thought content matches a blocked pattern")
	}

	quota := g.quota()
	if !g.tracker.RecordAndCheck(sessionID, quota) {
		g.logger.Debug("session over quota", "session_id", sessionID)
		return apperr.NewRateLimit("RATE_LIMIT_EXCEEDED",
			fmt.Sprintf("session exceeded %d thoughts per minute", quota)).
			WithDetail("session_id", sessionID).
			WithDetail("max_per_minute", quota)
	}
	return nil
}

// UpdatePatterns replaces the blocked pattern set. Used by config hot
// reload; in-flight validations finish against the old set.
func (g *Gate) UpdatePatterns(blocked []string) {
	compiled := compilePatterns(blocked)
	g.mu.Lock()
	g.patterns = compiled
	g.mu.Unlock()
	g.logger.Debug("blocked patterns updated", "count", len(compiled))
}

// UpdateQuota replaces the per-session quota. Used by config hot reload;
// maxPerMinute <= 0 disables the quota.
func (g *Gate) UpdateQuota(maxPerMinute int) {
	g.mu.Lock()
	g.maxPerMinute = maxPerMinute
	g.mu.Unlock()
	g.logger.Debug("session quota updated", "max_per_minute", maxPerMinute)
}

func (g *Gate) quota() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.maxPerMinute
}

// PatternCount returns the number of active blocked patterns.
func (g *Gate) PatternCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.patterns)
}

func (g *Gate) match(text string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.patterns {
		if p.matches(text) {
			return p.source, true
		}
	}
	return "", false
}
