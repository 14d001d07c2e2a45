package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gothink/gothink/pkg/api/middleware"
	"github.com/gothink/gothink/pkg/api/models"
	"github.com/gothink/gothink/pkg/api/response"
	"github.com/gothink/gothink/pkg/reasoning"
	"github.com/gothink/gothink/pkg/thought"
)

// ThoughtHandler handles reasoning-related API endpoints.
type ThoughtHandler struct {
	hub       reasoning.Hub
	logger    thoughtLogger
	validator *validator.Validate
}

type thoughtLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewThoughtHandler creates a new thought handler.
func NewThoughtHandler(hub reasoning.Hub, log thoughtLogger) *ThoughtHandler {
	return &ThoughtHandler{
		hub:       hub,
		logger:    log,
		validator: validator.New(),
	}
}

// SubmitThought handles POST /api/v1/thoughts
// @Summary Submit a thought
// @Description Validate a reasoning step against the security gate and record it in the bounded history
// @Tags thoughts
// @Accept json
// @Produce json
// @Param thought body models.ThoughtRequest true "Thought to record"
// @Success 201 {object} models.ThoughtResponse "Thought recorded"
// @Failure 400 {object} response.ErrorResponse "Invalid request body or validation error"
// @Failure 403 {object} response.ErrorResponse "Content blocked by security policy"
// @Failure 429 {object} response.ErrorResponse "Session quota exhausted"
// @Router /api/v1/thoughts [post]
func (h *ThoughtHandler) SubmitThought(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ThoughtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.ErrCodeBadRequest, "Invalid request body", getRequestID(ctx))
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.ErrCodeValidationFailed, err.Error(), getRequestID(ctx))
		return
	}

	rec := &thought.Record{
		Text:              req.Thought,
		ThoughtNumber:     req.ThoughtNumber,
		TotalThoughts:     req.TotalThoughts,
		NextThoughtNeeded: req.NextThoughtNeeded,
		IsRevision:        req.IsRevision,
		RevisesThought:    req.RevisesThought,
		BranchID:          req.BranchID,
		SessionID:         req.SessionID,
	}

	res, err := h.hub.SubmitThought(ctx, rec)
	if err != nil {
		h.logger.Warn("thought rejected",
			"thought_number", req.ThoughtNumber,
			"session_id", req.SessionID,
			"error", err,
		)
		response.HandleError(w, err, getRequestID(ctx))
		return
	}

	response.JSON(w, http.StatusCreated, models.ThoughtResponse{
		ThoughtNumber:     res.ThoughtNumber,
		TotalThoughts:     res.TotalThoughts,
		NextThoughtNeeded: res.NextThoughtNeeded,
		BranchIDs:         res.BranchIDs,
		HistoryLength:     res.HistoryLength,
		NodeID:            res.NodeID,
	})
}

// ListThoughts handles GET /api/v1/thoughts
// @Summary List recorded thoughts
// @Description List retained thoughts in completion order, most recent last
// @Tags thoughts
// @Produce json
// @Param limit query int false "Maximum number of thoughts, most recent first" default(0)
// @Success 200 {object} map[string]interface{} "Retained thoughts"
// @Router /api/v1/thoughts [get]
func (h *ThoughtHandler) ListThoughts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	thoughts := h.hub.History(ctx, limit)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"thoughts": thoughts,
		"count":    len(thoughts),
		"limit":    limit,
	})
}

// SuggestNext handles GET /api/v1/thoughts/suggest
// @Summary Suggest the next thought to expand
// @Description Score expandable tree nodes under the given strategy and return the best candidate with alternatives
// @Tags thoughts
// @Produce json
// @Param strategy query string false "Selection strategy (explore, exploit, balanced)" default(balanced)
// @Success 200 {object} map[string]interface{} "Suggestion, or null when nothing is expandable"
// @Failure 400 {object} response.ErrorResponse "Unknown strategy"
// @Router /api/v1/thoughts/suggest [get]
func (h *ThoughtHandler) SuggestNext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	strategy := r.URL.Query().Get("strategy")

	suggestion, err := h.hub.SuggestNext(ctx, strategy)
	if err != nil {
		response.HandleError(w, err, getRequestID(ctx))
		return
	}
	if suggestion == nil {
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"suggestion": nil,
			"message":    "no expandable nodes",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"suggestion": suggestion,
	})
}

// BestPath handles GET /api/v1/thoughts/path
// @Summary Get the best reasoning path
// @Description Return the highest-average-value path from the root of the thought tree
// @Tags thoughts
// @Produce json
// @Success 200 {object} map[string]interface{} "Best path, root first"
// @Router /api/v1/thoughts/path [get]
func (h *ThoughtHandler) BestPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := h.hub.BestPath(ctx)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"path":   path,
		"length": len(path),
	})
}

// RecordOutcome handles POST /api/v1/outcome
// @Summary Record a reward
// @Description Backpropagate an observed reward from a tree node to the root
// @Tags thoughts
// @Accept json
// @Produce json
// @Param outcome body models.OutcomeRequest true "Reward to record"
// @Success 200 {object} models.OutcomeResponse "Reward recorded"
// @Failure 400 {object} response.ErrorResponse "Invalid request body"
// @Failure 422 {object} response.ErrorResponse "Unknown node"
// @Router /api/v1/outcome [post]
func (h *ThoughtHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.ErrCodeBadRequest, "Invalid request body", getRequestID(ctx))
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.ErrCodeValidationFailed, err.Error(), getRequestID(ctx))
		return
	}

	updated, err := h.hub.RecordOutcome(ctx, req.NodeID, req.Reward)
	if err != nil {
		h.logger.Warn("outcome rejected", "node_id", req.NodeID, "error", err)
		response.HandleError(w, err, getRequestID(ctx))
		return
	}

	response.JSON(w, http.StatusOK, models.OutcomeResponse{
		NodeID:       req.NodeID,
		Reward:       req.Reward,
		UpdatedNodes: updated,
	})
}

// ListBranches handles GET /api/v1/branches
// @Summary List live branches
// @Description List the ids of branches that have not expired
// @Tags branches
// @Produce json
// @Success 200 {object} map[string]interface{} "Live branch ids"
// @Router /api/v1/branches [get]
func (h *ThoughtHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branches := h.hub.Branches(ctx)
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// GetBranch handles GET /api/v1/branches/{branchID}
// @Summary Get one branch
// @Description Return a snapshot of a branch and its thoughts
// @Tags branches
// @Produce json
// @Param branchID path string true "Branch ID"
// @Success 200 {object} thought.Branch "Branch snapshot"
// @Failure 400 {object} response.ErrorResponse "Missing branch ID"
// @Failure 404 {object} response.ErrorResponse "Branch not found or expired"
// @Router /api/v1/branches/{branchID} [get]
func (h *ThoughtHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	branchID := chi.URLParam(r, "branchID")

	if branchID == "" {
		response.Error(w, http.StatusBadRequest, response.ErrCodeBadRequest, "Branch ID is required", getRequestID(ctx))
		return
	}

	branch, ok := h.hub.Branch(ctx, branchID)
	if !ok {
		response.Error(w, http.StatusNotFound, response.ErrCodeNotFound, "Branch not found", getRequestID(ctx))
		return
	}

	response.JSON(w, http.StatusOK, branch)
}

// GetStats handles GET /api/v1/stats
// @Summary Get reasoning statistics
// @Description Return a combined snapshot of history, branch, session and tree sizes
// @Tags thoughts
// @Produce json
// @Success 200 {object} reasoning.StatsResult "Statistics snapshot"
// @Router /api/v1/stats [get]
func (h *ThoughtHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := h.hub.Stats(ctx)
	response.JSON(w, http.StatusOK, stats)
}

// ResetState handles DELETE /api/v1/state
// @Summary Reset reasoning state
// @Description Clear the history, branches, tree and session windows while keeping background loops running
// @Tags thoughts
// @Produce json
// @Success 200 {object} models.ResetResponse "State cleared"
// @Router /api/v1/state [delete]
func (h *ThoughtHandler) ResetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.hub.Reset(ctx)
	h.logger.Info("reasoning state reset via API", "request_id", getRequestID(ctx))

	response.JSON(w, http.StatusOK, models.ResetResponse{
		Cleared: true,
		Message: "reasoning state cleared",
	})
}

// getRequestID extracts request ID from context
func getRequestID(ctx context.Context) string {
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		return reqID
	}
	return "unknown"
}
