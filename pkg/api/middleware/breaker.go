package middleware

import (
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/gothink/gothink/config"
	"github.com/gothink/gothink/pkg/api/response"
	"github.com/gothink/gothink/pkg/logger"
)

// Breaker returns a middleware that sheds load when the API keeps failing.
// Responses with 5xx status count as failures; once the failure ratio trips
// the breaker it answers 503 until the timeout elapses and probes succeed.
func Breaker(cfg *config.BreakerConfig, log logger.Logger) func(http.Handler) http.Handler {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gothink-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			_, err := cb.Execute(func() (any, error) {
				wrapped := &breakerResponseWriter{
					ResponseWriter: w,
					statusCode:     http.StatusOK,
				}
				next.ServeHTTP(wrapped, r)
				if wrapped.statusCode >= http.StatusInternalServerError {
					return nil, http.ErrAbortHandler
				}
				return nil, nil
			})
			if err == nil {
				return
			}

			switch err {
			case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
				requestID := GetRequestID(r.Context())
				if requestID == "" {
					requestID = "unknown"
				}
				response.Error(w,
					http.StatusServiceUnavailable,
					response.ErrCodeCircuitOpen,
					"Service temporarily unavailable",
					requestID,
				)
			default:
				// The handler already wrote the failing response; the error
				// only fed the breaker's failure count.
			}
		})
	}
}

// breakerResponseWriter wraps http.ResponseWriter to capture the status code.
type breakerResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *breakerResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
