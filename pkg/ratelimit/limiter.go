// Package ratelimit throttles survey writes per client with token buckets.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultIdleTTL is how long an untouched client bucket is kept.
const DefaultIdleTTL = 5 * time.Minute

// Config configures a Limiter.
type Config struct {
	Rate  float64 // tokens per second
	Burst int     // bucket capacity; defaults to ceil(Rate)

	// TrustForwarded makes ClientIP honor X-Forwarded-For and X-Real-IP.
	// Only enable it behind a proxy that sets those headers.
	TrustForwarded bool

	IdleTTL time.Duration
}

// Limiter keeps one token bucket per client key. It is safe for concurrent use.
type Limiter struct {
	rate           float64
	burst          float64
	trustForwarded bool
	idleTTL        time.Duration
	now            func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// New returns a limiter, or nil when cfg.Rate is not positive.
// A nil *Limiter allows everything.
func New(cfg Config) *Limiter {
	if cfg.Rate <= 0 {
		return nil
	}
	burst := float64(cfg.Burst)
	if burst <= 0 {
		burst = math.Ceil(cfg.Rate)
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Limiter{
		rate:           cfg.Rate,
		burst:          burst,
		trustForwarded: cfg.TrustForwarded,
		idleTTL:        ttl,
		now:            time.Now,
		buckets:        make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) Decision {
	if l == nil {
		return Decision{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, seen: now}
		l.buckets[key] = b
	}
	b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.seen).Seconds()*l.rate)
	b.seen = now

	d := Decision{Limit: int(l.burst)}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
		d.Remaining = int(b.tokens)
		return d
	}
	d.RetryAfter = time.Duration((1 - b.tokens) / l.rate * float64(time.Second))
	return d
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops idle buckets at most once per idleTTL. Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.seen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
}

// ClientIP returns the key used to identify the caller of r.
func (l *Limiter) ClientIP(r *http.Request) string {
	if l != nil && l.trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
