package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/versions"
	"mercator-hq/saturn/pkg/telemetry/health"
	"mercator-hq/saturn/pkg/telemetry/metrics"
	"mercator-hq/saturn/pkg/telemetry/tracing"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request and analysis metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = collector
	}
}

// WithTracer creates spans for requests and analysis calls.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithBuildInfo sets what /version reports.
func WithBuildInfo(info health.BuildInfo) Option {
	return func(s *Server) {
		s.build = info
	}
}

// Server is the HTTP analysis service.
type Server struct {
	config   *config.Config
	registry *grammar.Registry
	cache    *versions.Cache
	sessions *SessionStore
	checker  *health.Checker
	validate *validator.Validate

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	build   health.BuildInfo

	handlerOnce sync.Once
	handler     http.Handler

	mu           sync.Mutex
	httpServer   *http.Server
	running      bool
	shutdownOnce sync.Once
}

// NewServer creates a server for cfg over the grammars in registry.
func NewServer(cfg *config.Config, registry *grammar.Registry, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("grammar registry cannot be nil")
	}
	if _, err := registry.Get(cfg.Analyzer.DefaultVersion); err != nil {
		return nil, fmt.Errorf("default version: %w", err)
	}

	s := &Server{
		config:   cfg,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		build:    health.BuildInfo{Version: tracing.ServiceVersion},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		tracer, err := tracing.New(&config.TracingConfig{})
		if err != nil {
			return nil, err
		}
		s.tracer = tracer
	}

	s.cache = versions.NewCache(registry, s.analyzerOptions()...)
	s.sessions = NewSessionStore(cfg.Server.MaxSessions, cfg.Server.SessionTTL, s.logger)
	s.sessions.onChange = s.metrics.SetActiveSessions

	s.checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	s.checker.RegisterCheck("grammar", health.GrammarCheck(registry, cfg.Analyzer.DefaultVersion))
	if cfg.Server.MaxSessions > 0 {
		s.checker.RegisterCheck("sessions", health.CapacityCheck(s.sessions.Len, cfg.Server.MaxSessions))
	}

	s.build.Grammars = registry.SupportedVersions()
	return s, nil
}

// analyzerOptions maps the analyzer config onto version manager options.
func (s *Server) analyzerOptions() []versions.Option {
	return append(versions.OptionsFromConfig(s.config.Analyzer), versions.WithLogger(s.logger))
}

// Sessions returns the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Handler returns the router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.handler = s.routes()
	})
	return s.handler
}

// Start serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.running = true
	cfg := s.config.Server
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, sweepInterval(cfg.SessionTTL))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting analysis server",
			"address", cfg.ListenAddress,
			"default_version", s.config.Analyzer.DefaultVersion,
			"grammars", len(s.build.Grammars),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}
	return s.Shutdown(context.Background())
}

// Shutdown stops accepting requests and waits for in-flight ones, up to
// the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		running := s.running
		s.running = false
		s.mu.Unlock()
		if !running || srv == nil {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
		s.logger.Info("analysis server stopped")
	})
	return shutdownErr
}

// sweepInterval picks how often expired sessions are collected.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Second)
}
