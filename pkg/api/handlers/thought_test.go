package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/models"
	"github.com/gothink/gothink/pkg/api/response"
	"github.com/gothink/gothink/pkg/reasoning"
)

type nopLogger struct{}

func (n *nopLogger) Debug(msg string, args ...any) {}
func (n *nopLogger) Info(msg string, args ...any)  {}
func (n *nopLogger) Warn(msg string, args ...any)  {}
func (n *nopLogger) Error(msg string, args ...any) {}

func setupThoughtHandler(t *testing.T, mutate func(*config.Config)) (*ThoughtHandler, func()) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Thinking.MaxHistory = 50
	cfg.Thinking.MaxThoughtLength = 500
	cfg.Thinking.BranchTTL = time.Hour
	cfg.Thinking.CleanupInterval = time.Hour
	cfg.Thinking.SessionIdleTimeout = time.Hour
	cfg.Security.MaxThoughtsPerMinute = 100
	cfg.Security.BlockedPatterns = []string{"password"}
	if mutate != nil {
		mutate(cfg)
	}

	hub := reasoning.NewReasoningHub(cfg, nil)
	require.NoError(t, hub.Start(context.Background()))

	handler := NewThoughtHandler(hub, &nopLogger{})
	cleanup := func() {
		hub.Destroy()
	}
	return handler, cleanup
}

func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func submitThought(t *testing.T, h *ThoughtHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/thoughts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.SubmitThought(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error.Code
}

func TestThoughtHandler_SubmitThought(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	body := `{"thought":"compare eviction policies","thought_number":1,"total_thoughts":3,"next_thought_needed":true}`
	w := submitThought(t, h, body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp models.ThoughtResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.ThoughtNumber)
	assert.Equal(t, 1, resp.HistoryLength)
	assert.NotEmpty(t, resp.NodeID)
}

func TestThoughtHandler_SubmitThought_InvalidJSON(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	w := submitThought(t, h, `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeBadRequest, decodeErrorCode(t, w))
}

func TestThoughtHandler_SubmitThought_ValidationFailure(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	// thought_number missing
	w := submitThought(t, h, `{"thought":"no position","total_thoughts":3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeValidationFailed, decodeErrorCode(t, w))
}

func TestThoughtHandler_SubmitThought_BlockedContent(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	body := `{"thought":"the admin password is hunter2","thought_number":1,"total_thoughts":1}`
	w := submitThought(t, h, body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "BLOCKED_CONTENT", decodeErrorCode(t, w))
}

func TestThoughtHandler_SubmitThought_QuotaExhausted(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, func(cfg *config.Config) {
		cfg.Security.MaxThoughtsPerMinute = 1
	})
	defer cleanup()

	first := submitThought(t, h, `{"thought":"first","thought_number":1,"total_thoughts":2,"session_id":"session-q"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := submitThought(t, h, `{"thought":"second","thought_number":2,"total_thoughts":2,"session_id":"session-q"}`)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeErrorCode(t, second))
}

func TestThoughtHandler_ListThoughts(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	for i := 1; i <= 3; i++ {
		body, err := json.Marshal(models.ThoughtRequest{
			Thought:       "step",
			ThoughtNumber: i,
			TotalThoughts: 3,
		})
		require.NoError(t, err)
		w := submitThought(t, h, string(body))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	w := httptest.NewRecorder()
	h.ListThoughts(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Count)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/thoughts?limit=2", nil)
	w = httptest.NewRecorder()
	h.ListThoughts(w, req)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestThoughtHandler_SuggestNext(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	body := `{"thought":"explore options","thought_number":1,"total_thoughts":3,"next_thought_needed":true}`
	w := submitThought(t, h, body)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts/suggest?strategy=explore", nil)
	w = httptest.NewRecorder()
	h.SuggestNext(w, req)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp struct {
		Suggestion *struct {
			Strategy  string `json:"strategy"`
			Rationale string `json:"rationale"`
		} `json:"suggestion"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Suggestion, "expected a suggestion for an expandable tree")
	assert.Equal(t, "explore", resp.Suggestion.Strategy)
}

func TestThoughtHandler_SuggestNext_UnknownStrategy(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts/suggest?strategy=bogus", nil)
	w := httptest.NewRecorder()
	h.SuggestNext(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STRATEGY", decodeErrorCode(t, w))
}

func TestThoughtHandler_SuggestNext_EmptyTree(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts/suggest", nil)
	w := httptest.NewRecorder()
	h.SuggestNext(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestion any    `json:"suggestion"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Nil(t, resp.Suggestion)
	assert.NotEmpty(t, resp.Message, "expected an explanatory message on empty tree")
}

func TestThoughtHandler_BestPath(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	for i := 1; i <= 2; i++ {
		body, err := json.Marshal(models.ThoughtRequest{
			Thought:           "step",
			ThoughtNumber:     i,
			TotalThoughts:     2,
			NextThoughtNeeded: i < 2,
		})
		require.NoError(t, err)
		w := submitThought(t, h, string(body))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts/path", nil)
	w := httptest.NewRecorder()
	h.BestPath(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Length int `json:"length"`
		Path   []struct {
			ThoughtNumber int `json:"thought_number"`
		} `json:"path"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.GreaterOrEqual(t, resp.Length, 1)
	assert.Equal(t, 1, resp.Path[0].ThoughtNumber, "path must start at the root")
}

func TestThoughtHandler_RecordOutcome(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	w := submitThought(t, h, `{"thought":"root","thought_number":1,"total_thoughts":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.ThoughtResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	body, err := json.Marshal(models.OutcomeRequest{NodeID: created.NodeID, Reward: 0.8})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outcome", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.RecordOutcome(w, req)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp models.OutcomeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.GreaterOrEqual(t, resp.UpdatedNodes, 1)
	assert.Equal(t, created.NodeID, resp.NodeID)
}

func TestThoughtHandler_RecordOutcome_UnknownNode(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/outcome",
		bytes.NewBufferString(`{"node_id":"no-such-node","reward":0.5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.RecordOutcome(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "UNKNOWN_NODE", decodeErrorCode(t, w))
}

func TestThoughtHandler_RecordOutcome_MissingNodeID(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/outcome",
		bytes.NewBufferString(`{"reward":0.5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.RecordOutcome(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThoughtHandler_Branches(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	body := `{"thought":"alternative","thought_number":1,"total_thoughts":1,"branch_id":"alt-1"}`
	w := submitThought(t, h, body)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branches", nil)
	w = httptest.NewRecorder()
	h.ListBranches(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Branches []string `json:"branches"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listResp))
	assert.Equal(t, 1, listResp.Count)
	assert.Equal(t, []string{"alt-1"}, listResp.Branches)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/branches/alt-1", nil)
	req = withChiURLParam(req, "branchID", "alt-1")
	w = httptest.NewRecorder()
	h.GetBranch(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var branchResp struct {
		ID       string `json:"id"`
		Thoughts []struct {
			Text string `json:"text"`
		} `json:"thoughts"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&branchResp))
	assert.Equal(t, "alt-1", branchResp.ID)
	assert.Len(t, branchResp.Thoughts, 1)
}

func TestThoughtHandler_GetBranch_NotFound(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branches/missing", nil)
	req = withChiURLParam(req, "branchID", "missing")
	w := httptest.NewRecorder()
	h.GetBranch(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestThoughtHandler_GetBranch_MissingID(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/branches/", nil)
	req = withChiURLParam(req, "branchID", "")
	w := httptest.NewRecorder()
	h.GetBranch(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThoughtHandler_GetStats(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	w := submitThought(t, h, `{"thought":"one","thought_number":1,"total_thoughts":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w = httptest.NewRecorder()
	h.GetStats(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		HistorySize     int `json:"history_size"`
		HistoryCapacity int `json:"history_capacity"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.HistorySize)
	assert.Equal(t, 50, resp.HistoryCapacity)
}

func TestThoughtHandler_ResetState(t *testing.T) {
	h, cleanup := setupThoughtHandler(t, nil)
	defer cleanup()

	w := submitThought(t, h, `{"thought":"one","thought_number":1,"total_thoughts":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/state", nil)
	w = httptest.NewRecorder()
	h.ResetState(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ResetResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Cleared)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	w = httptest.NewRecorder()
	h.ListThoughts(w, req)

	var listResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listResp))
	assert.Equal(t, 0, listResp.Count)
}
