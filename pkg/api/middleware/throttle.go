package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/response"
)

const (
	// maxTrackedClients caps the limiter registry; beyond it a sweep evicts
	// idle clients before admitting new ones.
	maxTrackedClients = 4096

	// clientIdleTTL is how long an idle client's limiter survives.
	clientIdleTTL = 10 * time.Minute
)

// clientLimiter pairs a token bucket with its last activity time.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// throttleRegistry manages rate limiters per client.
type throttleRegistry struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
}

func newThrottleRegistry(requestsPerSecond float64, burst int) *throttleRegistry {
	return &throttleRegistry{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter gets or creates a limiter for a client.
func (tr *throttleRegistry) getLimiter(clientID string) *rate.Limiter {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	entry, exists := tr.limiters[clientID]
	if !exists {
		if len(tr.limiters) >= maxTrackedClients {
			tr.evictIdleLocked()
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(tr.rate, tr.burst)}
		tr.limiters[clientID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (tr *throttleRegistry) evictIdleLocked() {
	cutoff := time.Now().Add(-clientIdleTTL)
	for id, entry := range tr.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(tr.limiters, id)
		}
	}
}

// Throttle returns a middleware that rate limits requests per client.
// Clients are identified by the X-Session-ID header when present, otherwise
// by remote address. Health and metrics endpoints are never throttled.
func Throttle(cfg *config.ThrottleConfig) func(http.Handler) http.Handler {
	registry := newThrottleRegistry(cfg.RPS, cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || isExemptFromThrottle(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			limiter := registry.getLimiter(throttleClientID(r))
			if !limiter.Allow() {
				// Tell the client when the next token frees up.
				reservation := limiter.Reserve()
				retryAfter := reservation.Delay()
				reservation.Cancel()

				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				requestID := GetRequestID(r.Context())
				if requestID == "" {
					requestID = "unknown"
				}
				response.Error(w,
					http.StatusTooManyRequests,
					response.ErrCodeRateLimited,
					"Too many requests",
					requestID,
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isExemptFromThrottle skips probes and scrapes.
func isExemptFromThrottle(path string) bool {
	switch path {
	case "/health", "/ready", "/metrics":
		return true
	}
	return false
}

// throttleClientID extracts the client identifier from the request.
func throttleClientID(r *http.Request) string {
	if sessionID := r.Header.Get("X-Session-ID"); sessionID != "" {
		return sessionID
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "anonymous"
}
