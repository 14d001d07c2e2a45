package eventbus

import "fmt"

const (
	// SubjectPrefix is the canonical prefix for reasoning lifecycle events.
	SubjectPrefix = "gothink.v1.reasoning"
)

// Domain identifies reasoning lifecycle event domains.
type Domain string

const (
	DomainThought Domain = "thought"
	DomainBranch  Domain = "branch"
	DomainSession Domain = "session"
	DomainState   Domain = "state"
)

// Event types emitted by the reasoning hub.
const (
	EventThoughtAccepted  = "accepted"
	EventThoughtRejected  = "rejected"
	EventThoughtSuggested = "suggested"
	EventOutcomeRecorded  = "recorded"
	EventBranchCreated    = "created"
	EventBranchPruned     = "pruned"
	EventSessionExpired   = "expired"
	EventStateCleared     = "cleared"
	EventStateDestroyed   = "destroyed"
)

// ValidDomain reports whether d is a known event domain.
func ValidDomain(d Domain) bool {
	switch d {
	case DomainThought, DomainBranch, DomainSession, DomainState:
		return true
	}
	return false
}

// Subject returns the canonical lifecycle subject for a domain. The session
// key scopes the subject so subscribers can follow a single session.
func Subject(domain Domain, sessionKey, eventType string) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, sanitizeSegment(string(domain)), sanitizeSegment(sessionKey), sanitizeSegment(eventType))
}

// DomainWildcardSubject returns the canonical wildcard subject for a domain.
func DomainWildcardSubject(domain Domain) string {
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, sanitizeSegment(string(domain)))
}

func sanitizeSegment(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
