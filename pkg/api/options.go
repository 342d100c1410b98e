// Option functions for configuring Server.

package api

import (
	"log/slog"
	"time"

	"github.com/getmockd/surveyd/pkg/ratelimit"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithTimeouts sets the HTTP server read and write timeouts.
// Non-positive values keep the defaults.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// WithCORSConfig replaces the default allow-all CORS configuration.
func WithCORSConfig(cfg CORSConfig) Option {
	return func(s *Server) {
		s.cors = cfg
	}
}

// WithWriteRateLimit throttles survey creation and submission per client.
// A zero rate leaves writes unthrottled.
func WithWriteRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) {
		s.limiter = ratelimit.New(cfg)
	}
}
