// Package reasoning exposes the reasoning hub: the single entry point that
// composes the security gate, the session tracker, the state manager and
// the suggestion engine behind one interface.
package reasoning

import (
	"context"
	"time"

	"github.com/gothink/gothink/pkg/mcts"
	"github.com/gothink/gothink/pkg/thought"
	"github.com/gothink/gothink/pkg/tree"
)

// Hub is the main interface for the reasoning system.
type Hub interface {
	// SubmitThought validates a thought against security policy and applies
	// it to the reasoning state.
	SubmitThought(ctx context.Context, rec *thought.Record) (*SubmitResult, error)

	// SuggestNext recommends the next node to expand under the given
	// strategy, with up to three alternatives. An empty strategy uses the
	// configured default. Returns nil when nothing is expandable.
	SuggestNext(ctx context.Context, strategy string) (*mcts.Suggestion, error)

	// RecordOutcome backpropagates a reward from the given node to the
	// root and returns the number of updated nodes.
	RecordOutcome(ctx context.Context, nodeID string, reward float64) (int, error)

	// BestPath returns the highest-average-value path from the root.
	BestPath(ctx context.Context) []*tree.Node

	// History returns recorded thoughts in completion order, most recent
	// last. A non-positive limit returns everything retained.
	History(ctx context.Context, limit int) []*thought.Record

	// Branches returns the ids of live branches.
	Branches(ctx context.Context) []string

	// Branch returns a detached snapshot of one branch.
	Branch(ctx context.Context, id string) (*thought.Branch, bool)

	// Stats returns a combined snapshot of reasoning state sizes.
	Stats(ctx context.Context) *StatsResult

	// Reset clears all reasoning state while keeping background loops
	// running.
	Reset(ctx context.Context)

	// Start begins the idle-session cleanup loop.
	Start(ctx context.Context) error

	// Stop halts background loops without clearing state.
	Stop(ctx context.Context) error

	// Destroy stops background loops and clears all state. Safe to call
	// more than once.
	Destroy()
}

// SubmitResult reports the state observed at the moment a thought was
// applied.
type SubmitResult struct {
	ThoughtNumber     int      `json:"thought_number"`
	TotalThoughts     int      `json:"total_thoughts"`
	NextThoughtNeeded bool     `json:"next_thought_needed"`
	BranchIDs         []string `json:"branch_ids"`
	HistoryLength     int      `json:"history_length"`
	NodeID            string   `json:"node_id"`
}

// StatsResult is a combined snapshot across the hub's components.
type StatsResult struct {
	HistorySize     int            `json:"history_size"`
	HistoryCapacity int            `json:"history_capacity"`
	BranchCount     int            `json:"branch_count"`
	SessionCount    int            `json:"session_count"`
	PrunedBranches  int64          `json:"pruned_branches"`
	Tree            mcts.TreeStats `json:"tree"`
	OldestThought   *time.Time     `json:"oldest_thought,omitempty"`
	NewestThought   *time.Time     `json:"newest_thought,omitempty"`
}
