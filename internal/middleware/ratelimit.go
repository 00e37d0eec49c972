package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/internal/ratelimit"
	"github.com/recordkit/recordkit/pkg/logger"
)

// RateLimit returns a middleware that limits requests per client IP.
// Probe endpoints are never limited. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health", "/ready", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), "ip:"+GetClientIP(r.Context()))
			if err != nil {
				logger.FromContext(r.Context(), log).Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				metrics.RecordRateLimited()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded","code":"RATE_LIMITED"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
