// Package models defines API request/response data structures.
package models

// ThoughtRequest represents a thought submission request.
type ThoughtRequest struct {
	// Thought is the reasoning content.
	Thought string `json:"thought" validate:"required,min=1" example:"Compare eviction policies before settling on LRU"`

	// ThoughtNumber is the 1-based position in the caller's sequence.
	ThoughtNumber int `json:"thought_number" validate:"required,min=1" example:"1"`

	// TotalThoughts is the caller's current estimate of the sequence length.
	TotalThoughts int `json:"total_thoughts" validate:"required,min=1" example:"5"`

	// NextThoughtNeeded reports whether the caller intends to continue.
	NextThoughtNeeded bool `json:"next_thought_needed" example:"true"`

	// IsRevision marks this thought as revising an earlier one.
	IsRevision bool `json:"is_revision,omitempty" example:"false"`

	// RevisesThought is the thought number being revised. Required when
	// IsRevision is set.
	RevisesThought int `json:"revises_thought,omitempty" validate:"omitempty,min=1" example:"2"`

	// BranchID names the branch this thought extends, if any.
	BranchID string `json:"branch_id,omitempty" validate:"omitempty,max=100" example:"alt-eviction"`

	// SessionID identifies the submitting session. Empty submissions are
	// exempt from rate limiting.
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=100" example:"session-42"`
}

// ThoughtResponse represents a thought submission response.
type ThoughtResponse struct {
	// ThoughtNumber echoes the accepted thought's sequence position.
	ThoughtNumber int `json:"thought_number"`

	// TotalThoughts is the normalized sequence estimate.
	TotalThoughts int `json:"total_thoughts"`

	// NextThoughtNeeded reports whether the caller intends to continue.
	NextThoughtNeeded bool `json:"next_thought_needed"`

	// BranchIDs lists the live branches after this submission.
	BranchIDs []string `json:"branch_ids"`

	// HistoryLength is the retained history size after this submission.
	HistoryLength int `json:"history_length"`

	// NodeID is the tree node created for this thought.
	NodeID string `json:"node_id"`
}

// OutcomeRequest represents a reward recording request.
type OutcomeRequest struct {
	// NodeID is the tree node the reward applies to.
	NodeID string `json:"node_id" validate:"required" example:"node-0003"`

	// Reward is the observed outcome value backpropagated to the root.
	Reward float64 `json:"reward" example:"0.8"`
}

// OutcomeResponse represents a reward recording response.
type OutcomeResponse struct {
	// NodeID echoes the node the reward was recorded against.
	NodeID string `json:"node_id"`

	// Reward echoes the recorded value.
	Reward float64 `json:"reward"`

	// UpdatedNodes is how many nodes the backpropagation touched.
	UpdatedNodes int `json:"updated_nodes"`
}

// ResetResponse represents a state reset response.
type ResetResponse struct {
	// Cleared is true once the reasoning state has been dropped.
	Cleared bool `json:"cleared"`

	// Message provides additional information.
	Message string `json:"message,omitempty"`
}
