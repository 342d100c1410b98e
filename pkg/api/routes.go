// Route registration for the survey API.

package api

import (
	"net/http"

	"github.com/getmockd/surveyd/pkg/api/types"
	"github.com/getmockd/surveyd/pkg/httputil"
	"github.com/getmockd/surveyd/pkg/ratelimit"
)

// registerRoutes sets up all API routes and pages.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.registry.Handler())

	limitWrites := ratelimit.Middleware(s.limiter, s.rejectThrottled)

	// JSON API
	mux.HandleFunc("GET /surveys", s.handleListSurveys)
	mux.Handle("POST /create-survey", limitWrites(http.HandlerFunc(s.handleCreateSurvey)))
	mux.HandleFunc("GET /survey/{id}", s.handleGetSurvey)
	mux.Handle("POST /survey/{id}/submit", limitWrites(http.HandlerFunc(s.handleSubmitSurvey)))
	mux.HandleFunc("GET /survey/{id}/results", s.handleGetResults)

	// Rendered pages
	mux.HandleFunc("GET /{$}", s.handleIndexPage)
	mux.HandleFunc("GET /survey/{id}/take", s.handleTakePage)
	mux.HandleFunc("GET /survey/{id}/results/view", s.handleResultsPage)
}

func (s *Server) rejectThrottled(w http.ResponseWriter, r *http.Request, d ratelimit.Decision) {
	s.log.Warn("write throttled", "path", r.URL.Path, "retryAfter", d.RetryAfter,
		"requestId", RequestIDFromContext(r.Context()))
	httputil.WriteTooManyRequests(w, types.ErrCodeRateLimited, types.MsgRateLimited)
}
