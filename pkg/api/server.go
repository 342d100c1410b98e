package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/getmockd/surveyd/internal/storage"
	"github.com/getmockd/surveyd/pkg/logging"
	"github.com/getmockd/surveyd/pkg/metrics"
	"github.com/getmockd/surveyd/pkg/ratelimit"
	"github.com/getmockd/surveyd/pkg/template"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":3000"

// ErrAlreadyStarted is returned by Start when the server is running.
var ErrAlreadyStarted = errors.New("server already started")

// Server exposes the survey API and HTML pages.
type Server struct {
	store  storage.SurveyStore
	engine *template.Engine
	policy *bluemonday.Policy
	log    *slog.Logger
	cors   CORSConfig

	registry *metrics.Registry
	metrics  *metrics.Set
	limiter  *ratelimit.Limiter

	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration

	handler    http.Handler
	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time
}

// New creates a Server backed by store. A nil store gets an empty
// in-memory store.
func New(store storage.SurveyStore, opts ...Option) *Server {
	if store == nil {
		store = storage.NewInMemorySurveyStore()
	}
	s := &Server{
		store:        store,
		engine:       template.New(template.WithNesting(template.NestingBalanced)),
		policy:       bluemonday.StrictPolicy(),
		log:          logging.Nop(),
		cors:         DefaultCORSConfig(),
		addr:         DefaultAddr,
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry = metrics.NewRegistry()
	s.metrics = metrics.NewSet(s.registry)
	metrics.RegisterSurveyCount(s.registry, s.store.Count)
	metrics.RegisterProcess(s.registry, func() time.Duration { return time.Since(s.startTime) })

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withMiddleware(mux)
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the registry served at /metrics.
func (s *Server) Metrics() *metrics.Registry {
	return s.registry
}

// Store returns the backing survey store.
func (s *Server) Store() storage.SurveyStore {
	return s.store
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	if s.httpServer != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.startTime = time.Now()
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.log.Info("starting survey server", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("survey server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("stopping survey server")
	err := s.httpServer.Shutdown(ctx)
	s.httpServer = nil
	s.listener = nil
	return err
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	return int(time.Since(s.startTime).Seconds())
}
