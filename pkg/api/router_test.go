package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/handlers"
	"github.com/gothink/gothink/pkg/logger"
	"github.com/gothink/gothink/pkg/reasoning"
)

func testRouterConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Thinking.CleanupInterval = time.Hour
	return cfg
}

func testRouterLogger() logger.Logger {
	return logger.New(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "json",
		Output: "stdout",
	})
}

// createTestHandlers creates test handlers backed by a running hub.
func createTestHandlers(t *testing.T, cfg *config.Config) (*Handlers, func()) {
	t.Helper()
	log := testRouterLogger()

	hub := reasoning.NewReasoningHub(cfg, log)
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start hub: %v", err)
	}
	cleanup := func() {
		hub.Destroy()
	}

	return &Handlers{
		Thought: handlers.NewThoughtHandler(hub, log),
		Health:  handlers.NewHealthHandler(hub),
	}, cleanup
}

func TestNewRouter(t *testing.T) {
	router := NewRouter(testRouterConfig(), testRouterLogger(), &Handlers{})

	if router == nil {
		t.Fatal("NewRouter returned nil")
	}
}

func TestRegisterRoutes_HealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		method     string
		wantStatus int
	}{
		{
			name:       "health check",
			path:       "/health",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:       "ready check",
			path:       "/ready",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:       "status check",
			path:       "/status",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	cfg := testRouterConfig()
	testHandlers, cleanup := createTestHandlers(t, cfg)
	defer cleanup()

	router := NewRouter(cfg, testRouterLogger(), testHandlers)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_ThoughtEndpoints(t *testing.T) {
	cfg := testRouterConfig()
	testHandlers, cleanup := createTestHandlers(t, cfg)
	defer cleanup()

	router := NewRouter(cfg, testRouterLogger(), testHandlers)

	body := `{"thought":"first step","thought_number":1,"total_thoughts":2,"next_thought_needed":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/thoughts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %v, want %v, body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	for _, path := range []string{
		"/api/v1/thoughts",
		"/api/v1/thoughts/suggest",
		"/api/v1/thoughts/path",
		"/api/v1/branches",
		"/api/v1/stats",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %v, want %v", path, w.Code, http.StatusOK)
		}
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/state", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("DELETE /api/v1/state status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestRouter_WebSocketMount(t *testing.T) {
	cfg := testRouterConfig()
	testHandlers, cleanup := createTestHandlers(t, cfg)
	defer cleanup()
	testHandlers.WebSocket = handlers.NewWebSocketHandler(testRouterLogger(), handlers.WebSocketConfig{})

	router := NewRouter(cfg, testRouterLogger(), testHandlers)

	// A plain GET without the upgrade handshake reaches the handler and is
	// rejected there, proving the route is mounted.
	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("GET /ws/events without upgrade status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestRouter_SwaggerMount(t *testing.T) {
	cfg := testRouterConfig()
	testHandlers, cleanup := createTestHandlers(t, cfg)
	defer cleanup()

	router := NewRouter(cfg, testRouterLogger(), testHandlers)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /swagger/index.html status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestRouter_NotFound(t *testing.T) {
	cfg := testRouterConfig()
	testHandlers, cleanup := createTestHandlers(t, cfg)
	defer cleanup()

	router := NewRouter(cfg, testRouterLogger(), testHandlers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nonsense", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNotFound)
	}
}
