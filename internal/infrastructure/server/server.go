package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/api/http"
	"github.com/GriffinCanCode/retrodesk/internal/api/middleware"
	"github.com/GriffinCanCode/retrodesk/internal/api/ws"
	"github.com/GriffinCanCode/retrodesk/internal/domain/catalog"
	"github.com/GriffinCanCode/retrodesk/internal/domain/desktop"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/tracing"
)

// maxSweepInterval bounds how stale an idle desktop can get before removal
const maxSweepInterval = time.Minute

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	desktops *desktop.Manager
	catalog  *catalog.Catalog
	hub      *paint.Hub
	ws       *ws.Handler
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	registry *prometheus.Registry

	closeOnce sync.Once
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing retrodesk server",
		zap.String("addr", cfg.Addr()),
		zap.Int("history_cap", cfg.Paint.HistoryCap),
		zap.Strings("origins", cfg.CORS.AllowedOrigins),
	)

	// Metrics first, every component below reports into them
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	tracer := tracing.New("retrodesk", logger.Component("tracing"))

	cat := catalog.New()
	if cfg.Desktop.CatalogDir != "" {
		stats, err := cat.LoadDir(cfg.Desktop.CatalogDir, logger.Component("catalog"))
		if err != nil {
			logger.Warn("Failed to load catalog manifests",
				zap.String("dir", cfg.Desktop.CatalogDir),
				zap.Error(err))
		} else {
			logger.Info("Catalog manifests loaded",
				zap.Int("files", stats.Files),
				zap.Int("loaded", stats.Loaded),
				zap.Int("skipped", stats.Skipped))
		}
	}

	desktops := desktop.NewManager(cat, desktop.Options{
		MaxSessions: cfg.Desktop.MaxDesktop,
		IdleTTL:     cfg.Desktop.IdleTTL,
	}, logger.Component("desktop")).WithMetrics(metrics)

	hub := paint.NewHub(paint.Options{
		HistoryCap: cfg.Paint.HistoryCap,
		MaxBrush:   cfg.Paint.MaxBrush,
	}, logger.Component("paint")).WithMetrics(metrics)

	wsOpts := ws.DefaultOptions()
	wsOpts.AllowedOrigins = cfg.CORS.AllowedOrigins
	wsOpts.SendBuffer = cfg.Paint.SendBuffer
	wsOpts.DrawRPS = cfg.Paint.DrawRPS
	wsOpts.DrawBurst = cfg.Paint.DrawBurst
	wsHandler := ws.NewHandler(hub, wsOpts, logger.Component("ws")).
		WithMetrics(metrics).
		WithTracer(tracer)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := http.NewHandlers(http.Deps{
		Desktops:     desktops,
		Catalog:      cat,
		Hub:          hub,
		Metrics:      metrics,
		Logger:       logger.Component("http"),
		ResetMonthly: cfg.Paint.ResetMonthly,
	})
	handlers.Register(router)

	router.GET("/paint/ws", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	logger.Info("Server initialized successfully", zap.Int("apps", cat.Len()))

	return &Server{
		router:   router,
		desktops: desktops,
		catalog:  cat,
		hub:      hub,
		ws:       wsHandler,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: registry,
	}, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() nethttp.Handler {
	return s.router
}

// Hub returns the paint relay
func (s *Server) Hub() *paint.Hub {
	return s.hub
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &nethttp.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	go s.desktops.RunSweeper(bgCtx, sweepInterval(s.config.Desktop.IdleTTL))
	if s.config.Paint.ResetMonthly {
		s.logger.Info("Monthly canvas reset enabled", zap.Time("next", paint.NextReset(time.Now())))
		go s.hub.RunMonthlyReset(bgCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are invisible to http.Server.Shutdown
	if err := s.ws.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Paint connections did not close in time", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases background resources and flushes the logger
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.tracer.Close()
		_ = s.logger.Sync()
	})
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval <= 0 || interval > maxSweepInterval {
		return maxSweepInterval
	}
	return interval
}
