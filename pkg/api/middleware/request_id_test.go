package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var fromCtx string
	wrapped := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	echoed := w.Header().Get(RequestIDHeader)
	if echoed == "" || echoed != fromCtx {
		t.Fatalf("echoed id %q != context id %q", echoed, fromCtx)
	}
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", echoed, err)
	}
}

func TestRequestID_KeepsCallerSuppliedID(t *testing.T) {
	var fromCtx string
	wrapped := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	req.Header.Set(RequestIDHeader, "caller-123")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if fromCtx != "caller-123" {
		t.Fatalf("context id = %q, want caller-123", fromCtx)
	}
	if got := w.Header().Get(RequestIDHeader); got != "caller-123" {
		t.Fatalf("echoed id = %q, want caller-123", got)
	}
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	oversized := strings.Repeat("x", maxRequestIDLen+1)
	var fromCtx string
	wrapped := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	req.Header.Set(RequestIDHeader, oversized)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if fromCtx == oversized {
		t.Fatal("oversized caller id was kept")
	}
	if _, err := uuid.Parse(fromCtx); err != nil {
		t.Fatalf("replacement id %q is not a uuid: %v", fromCtx, err)
	}
}

func TestGetRequestID_EmptyForBareContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Fatalf("GetRequestID on bare context = %q, want empty", got)
	}
}
