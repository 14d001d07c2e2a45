package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/response"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestThrottle_RejectsOverBudget(t *testing.T) {
	cfg := &config.ThrottleConfig{Enabled: true, RPS: 1, Burst: 2}
	wrapped := Throttle(cfg)(okHandler())

	// Burst allows the first two requests straight through.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
		req.Header.Set("X-Session-ID", "session-a")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	req.Header.Set("X-Session-ID", "session-a")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on throttled response")
	}
	var errResp response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	if errResp.Error.Code != response.ErrCodeRateLimited {
		t.Errorf("error code = %v, want %v", errResp.Error.Code, response.ErrCodeRateLimited)
	}
}

func TestThrottle_IsolatesClients(t *testing.T) {
	cfg := &config.ThrottleConfig{Enabled: true, RPS: 1, Burst: 1}
	wrapped := Throttle(cfg)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	first.Header.Set("X-Session-ID", "session-a")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first client status = %d, want %d", w.Code, http.StatusOK)
	}

	// A different session has its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	second.Header.Set("X-Session-ID", "session-b")
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Fatalf("second client status = %d, want %d", w.Code, http.StatusOK)
	}

	exhausted := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	exhausted.Header.Set("X-Session-ID", "session-a")
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, exhausted)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("exhausted client status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestThrottle_SkipsProbesAndDisabled(t *testing.T) {
	cfg := &config.ThrottleConfig{Enabled: true, RPS: 1, Burst: 1}
	wrapped := Throttle(cfg)(okHandler())

	// Drain the bucket, then confirm probe paths still pass.
	drain := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
	drain.Header.Set("X-Session-ID", "session-a")
	wrapped.ServeHTTP(httptest.NewRecorder(), drain)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Session-ID", "session-a")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("probe %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}

	disabled := Throttle(&config.ThrottleConfig{Enabled: false, RPS: 1, Burst: 1})(okHandler())
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/thoughts", nil)
		w := httptest.NewRecorder()
		disabled.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("disabled throttle status = %d, want %d", w.Code, http.StatusOK)
		}
	}
}

func TestThrottleClientID(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		remoteAddr string
		want       string
	}{
		{name: "session header wins", sessionID: "session-1", remoteAddr: "10.0.0.1:1234", want: "session-1"},
		{name: "remote host fallback", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "unparseable remote addr", remoteAddr: "bogus", want: "bogus"},
		{name: "no identity", want: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.sessionID != "" {
				req.Header.Set("X-Session-ID", tt.sessionID)
			}
			if got := throttleClientID(req); got != tt.want {
				t.Errorf("throttleClientID() = %q, want %q", got, tt.want)
			}
		})
	}
}
