package middleware

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/uetodo/uetodo-api/internal/api/shared"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/platform/ratelimit"
	"github.com/uetodo/uetodo-api/internal/redact"
)

var errRateLimited = errors.New("rate limit exceeded")

// Limiter is the subset of ratelimit.Limiter the middleware needs.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// RateLimit rejects clients that exceed the limiter's window with 429.
// Requests are keyed by client IP. If the limiter itself fails the request
// is let through.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable",
					"error", redact.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retry := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Too many requests. Please try again later.", errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the address resolved by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
