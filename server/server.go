package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/observability"
	"github.com/kbukum/gorunnable/runnable"
	"github.com/kbukum/gorunnable/server/endpoint"
	"github.com/kbukum/gorunnable/server/middleware"
	"github.com/kbukum/gorunnable/version"
)

// Option configures a Server.
type Option func(*Server)

// WithServiceName sets the name reported on /health.
func WithServiceName(name string) Option {
	return func(s *Server) { s.service = name }
}

// WithMetrics records HTTP request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithHealthCheckers adds dependencies reported on /health.
func WithHealthCheckers(checkers ...observability.HealthChecker) Option {
	return func(s *Server) { s.checkers = append(s.checkers, checkers...) }
}

// Server serves a pipeline catalog over HTTP/1.1 and h2c.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	catalog    *runnable.Catalog
	service    string
	metrics    *observability.Metrics
	checkers   []observability.HealthChecker

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server for catalog. cfg should already have defaults applied.
func New(cfg Config, catalog *runnable.Catalog, log *logger.Logger, opts ...Option) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		config:  cfg,
		log:     log.WithComponent("server"),
		catalog: catalog,
		service: "gorunnable",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine.Use(middleware.RequestMetrics(s.metrics))
	s.routes()

	handler := middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.BodySizeLimit(cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)(s.engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(handler, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", endpoint.Health(s.service, version.Get().Version, s.config.healthTimeout(), s.checkers...))
	s.engine.GET("/version", endpoint.Version())

	v1 := s.engine.Group("/v1")
	v1.GET("/pipelines", s.listPipelines)
	v1.POST("/pipelines/:name/invoke", s.invokePipeline)
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr":      listener.Addr().String(),
		"pipelines": s.catalog.Names(),
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
