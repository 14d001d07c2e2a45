package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gothink/gothink/config"
	apperr "github.com/gothink/gothink/pkg/errors"
	"github.com/gothink/gothink/pkg/eventbus"
	"github.com/gothink/gothink/pkg/mcts"
	"github.com/gothink/gothink/pkg/security"
	"github.com/gothink/gothink/pkg/session"
	"github.com/gothink/gothink/pkg/state"
	"github.com/gothink/gothink/pkg/thought"
	"github.com/gothink/gothink/pkg/tree"
	"go.opentelemetry.io/otel/attribute"
)

// hubLogger is the minimal logger interface used by the hub.
type hubLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopHubLogger is a no-op logger.
type nopHubLogger struct{}

func (n *nopHubLogger) Debug(msg string, args ...any) {}
func (n *nopHubLogger) Info(msg string, args ...any)  {}
func (n *nopHubLogger) Warn(msg string, args ...any)  {}
func (n *nopHubLogger) Error(msg string, args ...any) {}

// HubOption configures optional hub collaborators.
type HubOption func(*ReasoningHub)

// WithPublisher attaches a lifecycle event publisher. Without one the hub
// stays silent on the bus.
func WithPublisher(pub *eventbus.Publisher) HubOption {
	return func(h *ReasoningHub) {
		h.events = pub
	}
}

// WithClock overrides the hub's time source, which also drives the branch
// store and session tracker it constructs.
func WithClock(now func() time.Time) HubOption {
	return func(h *ReasoningHub) {
		if now != nil {
			h.now = now
		}
	}
}

// WithMetrics sets the metrics recorder for the hub and the state manager it
// constructs.
func WithMetrics(metrics MetricsRecorder) HubOption {
	return func(h *ReasoningHub) {
		if metrics != nil {
			h.metrics = metrics
		}
	}
}

// ReasoningHub is the concrete implementation of the Hub interface.
type ReasoningHub struct {
	mu sync.RWMutex

	cfg      *config.Config
	gate     *security.Gate
	tracker  *session.Tracker
	state    *state.Manager
	engine   *mcts.Engine
	sessions *state.Janitor
	events   *eventbus.Publisher
	logger   hubLogger
	metrics  MetricsRecorder
	now      func() time.Time

	defaultStrategy mcts.Strategy
	started         bool
	destroyed       bool
	startedAt       time.Time
}

var _ Hub = (*ReasoningHub)(nil)

// NewReasoningHub creates a hub from configuration. Call Start to begin the
// idle-session cleanup loop and Destroy to tear everything down.
func NewReasoningHub(cfg *config.Config, logger hubLogger, opts ...HubOption) *ReasoningHub {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = &nopHubLogger{}
	}

	h := &ReasoningHub{
		cfg:     cfg,
		logger:  logger,
		metrics: &nopMetricsRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	strategy, err := mcts.ParseStrategy(cfg.MCTS.DefaultStrategy)
	if err != nil {
		logger.Warn("invalid default strategy, using balanced",
			"strategy", cfg.MCTS.DefaultStrategy,
		)
		strategy = mcts.StrategyBalanced
	}
	h.defaultStrategy = strategy

	h.tracker = session.NewTracker(session.WithClock(h.now))
	h.gate = security.NewGate(cfg.Security.BlockedPatterns, cfg.Security.MaxThoughtsPerMinute, h.tracker, logger)
	h.state = state.NewManager(&cfg.Thinking, logger,
		state.WithClock(h.now),
		state.WithPruneHook(h.onBranchesPruned),
		state.WithMetrics(h.metrics),
	)
	h.engine = mcts.NewEngine(logger)
	h.sessions = state.NewJanitor(cfg.Thinking.CleanupInterval)

	return h
}

// Start begins the idle-session cleanup loop.
func (h *ReasoningHub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return apperr.NewState("STATE_DESTROYED", "reasoning hub has been destroyed")
	}
	if h.started {
		return fmt.Errorf("reasoning hub already started")
	}

	h.logger.Info("starting reasoning hub",
		"max_history", h.cfg.Thinking.MaxHistory,
		"branch_ttl", h.cfg.Thinking.BranchTTL,
		"session_idle_timeout", h.cfg.Thinking.SessionIdleTimeout,
		"cleanup_interval", h.cfg.Thinking.CleanupInterval,
		"default_strategy", h.defaultStrategy,
	)

	h.sessions.Start(ctx, h.sweepSessions)
	h.started = true
	h.startedAt = h.now()
	return nil
}

// Stop halts the idle-session cleanup loop without clearing state.
func (h *ReasoningHub) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return nil
	}

	h.logger.Info("stopping reasoning hub")
	h.sessions.Stop()
	h.started = false
	return nil
}

// IsHealthy returns true if the hub is running.
func (h *ReasoningHub) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started && !h.destroyed
}

// IsReady returns true if the hub is ready to accept submissions.
func (h *ReasoningHub) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started && !h.destroyed && h.state != nil
}

// HubStatus represents the hub's current lifecycle state.
type HubStatus struct {
	State    string `json:"state"`
	Uptime   string `json:"uptime,omitempty"`
	Version  string `json:"version,omitempty"`
	History  int    `json:"history"`
	Branches int    `json:"branches"`
	Sessions int    `json:"sessions"`
}

// GetStatus returns detailed hub status.
func (h *ReasoningHub) GetStatus() *HubStatus {
	h.mu.RLock()
	started, destroyed, startedAt := h.started, h.destroyed, h.startedAt
	h.mu.RUnlock()

	stateStr := "idle"
	switch {
	case destroyed:
		stateStr = "destroyed"
	case started:
		stateStr = "running"
	case !startedAt.IsZero():
		stateStr = "stopped"
	}

	stats := h.state.Stats()
	status := &HubStatus{
		State:    stateStr,
		Version:  h.cfg.App.Version,
		History:  stats.HistoryLength,
		Branches: stats.BranchCount,
		Sessions: h.tracker.ActiveSessions(),
	}
	if started && !startedAt.IsZero() {
		status.Uptime = h.now().Sub(startedAt).Round(time.Second).String()
	}
	return status
}

// Destroy stops all background loops and clears every store. Safe to call
// more than once; a destroyed hub rejects further submissions.
func (h *ReasoningHub) Destroy() {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.destroyed = true
	h.started = false
	h.mu.Unlock()

	h.sessions.Stop()
	h.state.Destroy()
	h.tracker.Clear()

	h.publish(context.Background(), eventbus.ReasoningEvent{
		Domain:      eventbus.DomainState,
		EventType:   eventbus.EventStateDestroyed,
		OrderingKey: "state",
		Payload:     map[string]any{"reason": "destroy"},
	})
	h.logger.Info("reasoning hub destroyed")
}

// SubmitThought validates rec against the security gate, then applies it to
// the reasoning state. A thought rejected by the gate is never recorded; an
// admitted thought has already consumed its session quota even if a later
// structural check fails.
func (h *ReasoningHub) SubmitThought(ctx context.Context, rec *thought.Record) (out *SubmitResult, err error) {
	if rec == nil {
		return nil, apperr.NewValidation("NIL_THOUGHT", "thought record is required")
	}
	if h.isDestroyed() {
		return nil, apperr.NewState("STATE_DESTROYED", "reasoning hub has been destroyed")
	}

	ctx, span := startSubmitSpan(ctx, rec)
	defer func() { endSpan(span, err) }()

	start := time.Now()
	if err = h.gate.ValidateThought(rec.Text, rec.SessionID); err != nil {
		h.recordRejection(ctx, rec, err)
		return nil, err
	}

	rc := *rec
	if rc.ThoughtNumber > rc.TotalThoughts {
		rc.TotalThoughts = rc.ThoughtNumber
	}

	res, err := h.state.AddThought(&rc)
	if err != nil {
		h.recordRejection(ctx, rec, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("thought.node_id", res.NodeID))

	h.metrics.RecordThoughtSubmission(submissionAccepted)
	h.metrics.RecordSubmitDuration(time.Since(start))
	h.metrics.SetHistorySize(float64(res.HistoryLength))
	h.metrics.SetBranchCount(float64(len(res.BranchIDs)))

	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:     eventbus.DomainThought,
		EventType:  eventbus.EventThoughtAccepted,
		SessionKey: rc.SessionID,
		BranchID:   rc.BranchID,
		ThoughtID:  res.NodeID,
		Payload: map[string]any{
			"thought_number":      rc.ThoughtNumber,
			"total_thoughts":      rc.TotalThoughts,
			"next_thought_needed": rc.NextThoughtNeeded,
			"branch_id":           rc.BranchID,
			"history_length":      res.HistoryLength,
		},
	})
	if res.BranchCreated {
		h.publish(ctx, eventbus.ReasoningEvent{
			Domain:     eventbus.DomainBranch,
			EventType:  eventbus.EventBranchCreated,
			SessionKey: rc.SessionID,
			BranchID:   rc.BranchID,
			Payload:    map[string]any{"branch_id": rc.BranchID},
		})
	}

	return &SubmitResult{
		ThoughtNumber:     rc.ThoughtNumber,
		TotalThoughts:     rc.TotalThoughts,
		NextThoughtNeeded: rc.NextThoughtNeeded,
		BranchIDs:         res.BranchIDs,
		HistoryLength:     res.HistoryLength,
		NodeID:            res.NodeID,
	}, nil
}

// SuggestNext scores expandable nodes under the given strategy. An empty
// strategy falls back to the configured default.
func (h *ReasoningHub) SuggestNext(ctx context.Context, strategy string) (suggestion *mcts.Suggestion, err error) {
	if h.isDestroyed() {
		return nil, apperr.NewState("STATE_DESTROYED", "reasoning hub has been destroyed")
	}

	strat := h.defaultStrategy
	if strategy != "" {
		parsed, err := mcts.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		strat = parsed
	}

	ctx, span := startSuggestSpan(ctx, string(strat))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	suggestion, err = h.engine.SuggestNext(h.state.Tree(), strat)
	if err != nil || suggestion == nil {
		return suggestion, err
	}
	span.SetAttributes(attribute.String("thought.node_id", suggestion.Node.ID))
	h.metrics.RecordSuggestion(string(strat), time.Since(start))

	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:     eventbus.DomainThought,
		EventType:  eventbus.EventThoughtSuggested,
		SessionKey: "",
		ThoughtID:  suggestion.Node.ID,
		Payload: map[string]any{
			"node_id":   suggestion.Node.ID,
			"strategy":  string(strat),
			"rationale": suggestion.Rationale,
		},
	})
	return suggestion, nil
}

// RecordOutcome backpropagates a reward from nodeID to the root.
func (h *ReasoningHub) RecordOutcome(ctx context.Context, nodeID string, reward float64) (int, error) {
	if h.isDestroyed() {
		return 0, apperr.NewState("STATE_DESTROYED", "reasoning hub has been destroyed")
	}
	if nodeID == "" {
		return 0, apperr.NewValidation("MISSING_NODE_ID", "node id is required")
	}

	updated, err := h.engine.Backpropagate(h.state.Tree(), nodeID, reward)
	if err != nil {
		var notFound *tree.NodeNotFoundError
		if errors.As(err, &notFound) {
			return 0, apperr.NewBusinessLogic("UNKNOWN_NODE",
				fmt.Sprintf("node %s does not exist", nodeID)).WithCause(err)
		}
		return 0, err
	}

	h.metrics.RecordOutcomeRecorded()
	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:    eventbus.DomainThought,
		EventType: eventbus.EventOutcomeRecorded,
		ThoughtID: nodeID,
		Payload: map[string]any{
			"node_id": nodeID,
			"reward":  reward,
			"updated": updated,
		},
	})
	return updated, nil
}

// BestPath returns the highest-average-value path from the root.
func (h *ReasoningHub) BestPath(ctx context.Context) []*tree.Node {
	return h.engine.BestPath(h.state.Tree())
}

// History returns recorded thoughts in completion order, most recent last.
func (h *ReasoningHub) History(ctx context.Context, limit int) []*thought.Record {
	return h.state.History(limit)
}

// Branches returns the ids of live branches.
func (h *ReasoningHub) Branches(ctx context.Context) []string {
	return h.state.Branches()
}

// Branch returns a detached snapshot of one branch.
func (h *ReasoningHub) Branch(ctx context.Context, id string) (*thought.Branch, bool) {
	return h.state.Branch(id)
}

// Stats returns a combined snapshot across the hub's components.
func (h *ReasoningHub) Stats(ctx context.Context) *StatsResult {
	ms := h.state.Stats()
	out := &StatsResult{
		HistorySize:     ms.HistoryLength,
		HistoryCapacity: ms.HistoryCapacity,
		BranchCount:     ms.BranchCount,
		SessionCount:    h.tracker.ActiveSessions(),
		PrunedBranches:  ms.PrunedBranches,
		Tree:            h.engine.Stats(h.state.Tree()),
	}
	if rec, ok := h.state.OldestThought(); ok {
		ts := rec.Timestamp
		out.OldestThought = &ts
	}
	if rec, ok := h.state.NewestThought(); ok {
		ts := rec.Timestamp
		out.NewestThought = &ts
	}

	h.metrics.SetHistorySize(float64(out.HistorySize))
	h.metrics.SetBranchCount(float64(out.BranchCount))
	h.metrics.SetActiveSessions(float64(out.SessionCount))
	h.metrics.SetTreeSize(float64(out.Tree.NodeCount), float64(out.Tree.MaxDepth))
	return out
}

// Reset clears all reasoning state and forgets tracked sessions while the
// background loops keep running.
func (h *ReasoningHub) Reset(ctx context.Context) {
	h.state.Clear()
	h.tracker.Clear()
	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:      eventbus.DomainState,
		EventType:   eventbus.EventStateCleared,
		OrderingKey: "state",
		Payload:     map[string]any{"reason": "reset"},
	})
	h.logger.Info("reasoning state reset")
}

// ApplyHotReload applies the reloadable security settings. Log settings are
// handled by the process owner.
func (h *ReasoningHub) ApplyHotReload(cfg config.HotReloadableConfig) {
	h.gate.UpdatePatterns(cfg.BlockedPatterns)
	h.gate.UpdateQuota(cfg.MaxThoughtsPerMinute)
	h.logger.Info("applied hot reload",
		"blocked_patterns", len(cfg.BlockedPatterns),
		"max_thoughts_per_minute", cfg.MaxThoughtsPerMinute,
	)
}

func (h *ReasoningHub) isDestroyed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.destroyed
}

// sweepSessions is the janitor callback that drops idle session entries.
func (h *ReasoningHub) sweepSessions(ctx context.Context) error {
	idle := h.cfg.Thinking.SessionIdleTimeout
	if idle <= 0 {
		return nil
	}
	start := time.Now()
	expired := h.tracker.SweepIdle(idle, h.now())
	h.metrics.RecordCleanupRun("sessions", time.Since(start))
	if expired == 0 {
		return nil
	}
	h.metrics.RecordSessionsExpired(expired)
	h.metrics.SetActiveSessions(float64(h.tracker.ActiveSessions()))
	h.logger.Info("expired idle sessions", "count", expired)
	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:      eventbus.DomainSession,
		EventType:   eventbus.EventSessionExpired,
		OrderingKey: "sessions",
		Payload:     map[string]any{"expired": expired},
	})
	return nil
}

// onBranchesPruned runs on the state manager's cleanup goroutine after a
// TTL sweep removed branches.
func (h *ReasoningHub) onBranchesPruned(branchIDs []string) {
	h.publish(context.Background(), eventbus.ReasoningEvent{
		Domain:      eventbus.DomainBranch,
		EventType:   eventbus.EventBranchPruned,
		OrderingKey: "branches",
		Payload: map[string]any{
			"count":      len(branchIDs),
			"branch_ids": branchIDs,
		},
	})
}

// publish sends a lifecycle event when a publisher is attached. Publish
// failures are logged, never surfaced to the caller.
func (h *ReasoningHub) publish(ctx context.Context, event eventbus.ReasoningEvent) {
	if h.events == nil {
		return
	}
	if _, err := h.events.PublishReasoningEvent(ctx, event); err != nil {
		h.logger.Warn("event publish failed",
			"event_type", event.EventType,
			"error", err,
		)
	}
}

// recordRejection counts one rejected submission and emits its event. Kind
// labels are lowercased so the metric series and event payloads share one
// convention.
func (h *ReasoningHub) recordRejection(ctx context.Context, rec *thought.Record, cause error) {
	code, kind := "INTERNAL", "state"
	if ae, ok := apperr.As(cause); ok {
		code, kind = ae.Code, strings.ToLower(string(ae.Kind))
	}
	h.metrics.RecordThoughtSubmission(submissionRejected)
	h.metrics.RecordThoughtRejection(kind)

	ordering := rec.SessionID
	if ordering == "" {
		ordering = "anonymous"
	}
	h.publish(ctx, eventbus.ReasoningEvent{
		Domain:      eventbus.DomainThought,
		EventType:   eventbus.EventThoughtRejected,
		SessionKey:  rec.SessionID,
		BranchID:    rec.BranchID,
		OrderingKey: ordering,
		Payload:     map[string]any{"code": code, "kind": kind},
	})
}
