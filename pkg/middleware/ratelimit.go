package middleware

import (
	"net/http"
	"sync"

	"github.com/carepulse/carepulse/pkg/httputil"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RateLimitMiddleware applies a global token-bucket limit, used on the
// unauthenticated auth routes to slow down credential guessing.
func RateLimitMiddleware(config RateLimiterConfig) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	var mu sync.Mutex

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()

			if !allowed {
				httputil.Error(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
