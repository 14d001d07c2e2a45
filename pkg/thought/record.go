// Package thought defines the reasoning-step record and the branch store
// that groups records into named, bounded, expiring branches.
package thought

import (
	"time"

	apperr "github.com/gothink/gothink/pkg/errors"
)

// Record is a single reasoning step submitted by a caller. Records are
// immutable once stored; containers share them by reference.
type Record struct {
	// Text is the reasoning content.
	Text string `json:"text"`

	// ThoughtNumber is the 1-based position in the caller's sequence.
	ThoughtNumber int `json:"thought_number"`

	// TotalThoughts is the caller's current estimate of how long the
	// sequence will be. It may grow or shrink between calls.
	TotalThoughts int `json:"total_thoughts"`

	// IsRevision marks this record as revising an earlier thought.
	IsRevision bool `json:"is_revision,omitempty"`

	// RevisesThought is the thought number being revised. Required when
	// IsRevision is set.
	RevisesThought int `json:"revises_thought,omitempty"`

	// BranchID names the branch this record extends, if any.
	BranchID string `json:"branch_id,omitempty"`

	// SessionID identifies the submitting session. Empty for anonymous
	// callers, which are exempt from rate limiting.
	SessionID string `json:"session_id,omitempty"`

	// NextThoughtNeeded reports whether the caller intends to continue.
	NextThoughtNeeded bool `json:"next_thought_needed"`

	// Timestamp is when the record was accepted.
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks structural invariants that hold for every record. The
// length limit is enforced by the state manager, which owns that
// configuration.
func (r *Record) Validate() error {
	if r.ThoughtNumber < 1 {
		return apperr.NewValidation("INVALID_THOUGHT_NUMBER", "thought number must be >= 1").
			WithDetail("thought_number", r.ThoughtNumber)
	}
	if r.TotalThoughts < 1 {
		return apperr.NewValidation("INVALID_TOTAL_THOUGHTS", "total thoughts must be >= 1").
			WithDetail("total_thoughts", r.TotalThoughts)
	}
	if r.IsRevision && r.RevisesThought < 1 {
		return apperr.NewValidation("INVALID_REVISION_TARGET", "revision must name the thought it revises").
			WithDetail("revises_thought", r.RevisesThought)
	}
	return nil
}
