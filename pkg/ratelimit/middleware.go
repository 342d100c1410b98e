package ratelimit

import (
	"math"
	"net/http"
	"strconv"
)

// RejectFunc writes the response for a throttled request.
type RejectFunc func(w http.ResponseWriter, r *http.Request, d Decision)

// Middleware enforces l per client IP and sets X-RateLimit-* headers.
// A nil limiter passes every request through untouched.
func Middleware(l *Limiter, reject RejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.Allow(l.ClientIP(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			if reject != nil {
				reject(w, r, d)
				return
			}
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		})
	}
}
