// Package state owns the reasoning state: the bounded thought history, the
// branch store and the thought tree, updated together so that partial writes
// are never observable.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gothink/gothink/config"
	apperr "github.com/gothink/gothink/pkg/errors"
	"github.com/gothink/gothink/pkg/ring"
	"github.com/gothink/gothink/pkg/thought"
	"github.com/gothink/gothink/pkg/tree"
)

// managerLogger is the minimal logger interface used by Manager.
type managerLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopManagerLogger is a no-op logger.
type nopManagerLogger struct{}

func (n *nopManagerLogger) Debug(msg string, args ...any) {}
func (n *nopManagerLogger) Info(msg string, args ...any)  {}
func (n *nopManagerLogger) Warn(msg string, args ...any)  {}
func (n *nopManagerLogger) Error(msg string, args ...any) {}

// managerMetrics records cleanup pass metrics.
type managerMetrics interface {
	RecordCleanupRun(sweeper string, duration time.Duration)
	RecordBranchesPruned(count int)
}

type nopManagerMetrics struct{}

func (n *nopManagerMetrics) RecordCleanupRun(sweeper string, duration time.Duration) {}
func (n *nopManagerMetrics) RecordBranchesPruned(count int)                          {}

// ManagerOption is a functional option for Manager construction.
type ManagerOption func(*Manager)

// WithClock overrides the manager's time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithPruneHook registers a callback invoked with the branch ids removed by
// each cleanup pass. The hook runs outside the manager lock.
func WithPruneHook(hook func(branchIDs []string)) ManagerOption {
	return func(m *Manager) {
		m.pruneHook = hook
	}
}

// WithMetrics sets the metrics recorder for the manager.
func WithMetrics(metrics managerMetrics) ManagerOption {
	return func(m *Manager) {
		if metrics != nil {
			m.metrics = metrics
		}
	}
}

// Manager coordinates the history ring, the branch store and the thought
// tree under one lock, and owns the background cleanup pass.
type Manager struct {
	mu sync.RWMutex

	cfg       *config.ThinkingConfig
	history   *ring.Ring[*thought.Record]
	branches  *thought.Store
	tree      *tree.Tree
	janitor   *Janitor
	logger    managerLogger
	metrics   managerMetrics
	now       func() time.Time
	pruneHook func(branchIDs []string)

	// mainlineTip is the node id of the latest unbranched thought.
	mainlineTip string
	// mainlineByNumber maps mainline thought numbers to node ids so
	// revisions can attach under the node they revise.
	mainlineByNumber map[int]string
	// branchTips maps branch ids to their latest node id.
	branchTips map[string]string

	prunedBranches int64
	destroyed      bool
}

// AddResult reports the state observed at the moment a thought was applied.
type AddResult struct {
	NodeID        string
	HistoryLength int
	BranchIDs     []string
	BranchCreated bool
}

// Stats is a snapshot of manager-owned state sizes.
type Stats struct {
	HistoryLength   int   `json:"history_length"`
	HistoryCapacity int   `json:"history_capacity"`
	BranchCount     int   `json:"branch_count"`
	TreeNodes       int   `json:"tree_nodes"`
	PrunedBranches  int64 `json:"pruned_branches"`
}

// NewManager creates a manager and starts its cleanup pass. The caller must
// eventually call Destroy to stop it.
func NewManager(cfg *config.ThinkingConfig, logger managerLogger, opts ...ManagerOption) *Manager {
	if cfg == nil {
		defaults := config.DefaultConfig().Thinking
		cfg = &defaults
	}
	if logger == nil {
		logger = &nopManagerLogger{}
	}

	m := &Manager{
		cfg:              cfg,
		tree:             tree.New(),
		janitor:          NewJanitor(cfg.CleanupInterval),
		logger:           logger,
		metrics:          &nopManagerMetrics{},
		now:              time.Now,
		mainlineByNumber: make(map[int]string),
		branchTips:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.history = ring.New[*thought.Record](cfg.MaxHistory)
	m.branches = thought.NewStore(cfg.MaxBranchThoughts, thought.WithClock(m.now))

	m.janitor.Start(context.Background(), m.sweep)
	return m
}

// AddThought validates rec and applies it to the history ring, the branch
// store and the thought tree in one step. On any failure nothing is
// recorded.
func (m *Manager) AddThought(rec *thought.Record) (*AddResult, error) {
	if rec == nil {
		return nil, apperr.NewValidation("NIL_THOUGHT", "thought record cannot be nil")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if m.cfg.MaxThoughtLength > 0 && len(rec.Text) > m.cfg.MaxThoughtLength {
		return nil, apperr.NewValidation("THOUGHT_TOO_LONG",
			fmt.Sprintf("thought text exceeds %d bytes", m.cfg.MaxThoughtLength)).
			WithDetail("length", len(rec.Text)).
			WithDetail("max_length", m.cfg.MaxThoughtLength)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destroyed {
		return nil, apperr.NewState("STATE_DESTROYED", "state manager has been destroyed")
	}

	if rec.IsRevision {
		if _, ok := m.mainlineByNumber[rec.RevisesThought]; !ok {
			return nil, apperr.NewBusinessLogic("UNKNOWN_REVISION_TARGET",
				fmt.Sprintf("cannot revise unknown thought %d", rec.RevisesThought)).
				WithDetail("revises_thought", rec.RevisesThought)
		}
	}

	rc := *rec
	if rc.Timestamp.IsZero() {
		rc.Timestamp = m.now()
	}

	seed := &tree.Node{
		ThoughtNumber: rc.ThoughtNumber,
		Thought:       rc.Text,
		BranchID:      rc.BranchID,
		IsTerminal:    !rc.NextThoughtNeeded,
	}
	// Tree write goes first. If it fails, the ring and the branch store
	// are untouched.
	nodeID, err := m.tree.AddNode(m.placementParent(&rc), seed)
	if err != nil {
		return nil, apperr.Wrap(err, "state: add thought node")
	}

	m.history.Add(&rc)
	branchCreated := false
	if rc.BranchID != "" {
		branchCreated = m.branches.Upsert(rc.BranchID, &rc)
		m.branchTips[rc.BranchID] = nodeID
	} else {
		m.mainlineTip = nodeID
		m.mainlineByNumber[rc.ThoughtNumber] = nodeID
	}

	m.logger.Debug("recorded thought",
		"thought_number", rc.ThoughtNumber,
		"branch_id", rc.BranchID,
		"node_id", nodeID,
		"history_length", m.history.Len(),
	)

	return &AddResult{
		NodeID:        nodeID,
		HistoryLength: m.history.Len(),
		BranchIDs:     m.branches.IDs(),
		BranchCreated: branchCreated,
	}, nil
}

// placementParent picks the tree parent for a record. Branch thoughts chain
// from their branch tip, diverging from the revised node (or the mainline
// tip) on first use. Mainline revisions attach under the node they revise.
// Revision targets were resolved by AddThought before this runs. Called
// with m.mu held.
func (m *Manager) placementParent(rec *thought.Record) string {
	if m.tree.IsEmpty() {
		return ""
	}
	if rec.BranchID != "" {
		if tip, ok := m.branchTips[rec.BranchID]; ok {
			return tip
		}
		if rec.IsRevision {
			return m.mainlineByNumber[rec.RevisesThought]
		}
		return m.anchor()
	}
	if rec.IsRevision {
		return m.mainlineByNumber[rec.RevisesThought]
	}
	return m.anchor()
}

// anchor returns the mainline tip, falling back to the root when the first
// recorded thought opened a branch.
func (m *Manager) anchor() string {
	if m.mainlineTip != "" {
		return m.mainlineTip
	}
	if root, ok := m.tree.Root(); ok {
		return root.ID
	}
	return ""
}

// History returns up to limit thoughts in insertion order, most recent
// last. A non-positive limit returns everything.
func (m *Manager) History(limit int) []*thought.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.All(limit)
}

// OldestThought returns the oldest retained thought.
func (m *Manager) OldestThought() (*thought.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.Oldest()
}

// NewestThought returns the most recently recorded thought.
func (m *Manager) NewestThought() (*thought.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.history.Newest()
}

// Branch returns a detached copy of the branch, refreshing its lifetime.
func (m *Manager) Branch(id string) (*thought.Branch, bool) {
	return m.branches.Get(id)
}

// Branches returns all live branch ids, sorted.
func (m *Manager) Branches() []string {
	return m.branches.IDs()
}

// Tree exposes the thought tree for suggestion scoring. The tree is
// internally synchronized.
func (m *Manager) Tree() *tree.Tree {
	return m.tree
}

// Stats returns a snapshot of the manager-owned state.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		HistoryLength:   m.history.Len(),
		HistoryCapacity: m.history.Cap(),
		BranchCount:     m.branches.Count(),
		TreeNodes:       m.tree.Len(),
		PrunedBranches:  m.prunedBranches,
	}
}

// Clear resets all reasoning state while keeping the cleanup pass running.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.logger.Info("reasoning state cleared")
}

// Destroy stops the cleanup pass and clears all state. Safe to call more
// than once.
func (m *Manager) Destroy() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.destroyed = true
	m.mu.Unlock()

	// Stop outside the lock; an in-flight sweep needs m.mu to finish.
	m.janitor.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.logger.Info("state manager destroyed")
}

// clearLocked resets the stores. Called with m.mu held.
func (m *Manager) clearLocked() {
	m.history.Clear()
	m.branches.Clear()
	m.tree.Clear()
	m.mainlineTip = ""
	m.mainlineByNumber = make(map[int]string)
	m.branchTips = make(map[string]string)
}

// sweep is the janitor callback. It drops branches whose last access
// predates the TTL and prunes their subtrees from the thought tree.
func (m *Manager) sweep(ctx context.Context) error {
	if m.cfg.BranchTTL <= 0 {
		// Zero TTL means branches never expire.
		return nil
	}

	start := time.Now()
	m.mu.Lock()
	removed := m.branches.SweepExpired(m.cfg.BranchTTL, m.now())
	if len(removed) == 0 {
		m.mu.Unlock()
		m.metrics.RecordCleanupRun("branches", time.Since(start))
		return nil
	}
	for _, id := range removed {
		m.tree.RemoveBranch(id)
		delete(m.branchTips, id)
	}
	m.prunedBranches += int64(len(removed))
	m.mu.Unlock()

	m.metrics.RecordCleanupRun("branches", time.Since(start))
	m.metrics.RecordBranchesPruned(len(removed))
	m.logger.Info("pruned expired branches",
		"count", len(removed),
		"branch_ids", removed,
	)
	if m.pruneHook != nil {
		m.pruneHook(removed)
	}
	return nil
}
