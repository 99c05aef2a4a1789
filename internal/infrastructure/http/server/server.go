// Package server provides the HTTP server hosting the plan validation API
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/infrastructure/http/handlers"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	"github.com/wodplate/v2/internal/ports/inbound"
	"go.uber.org/zap"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	config *config.Config
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

// New creates a configured HTTP server with all routes registered.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	planService inbound.PlanService,
	metrics *monitoring.Metrics,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		logger: logger.Named("http"),
	}
	s.engine = s.setupRouter(planService, metrics)
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.engine,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRouter configures middleware and routes.
func (s *Server) setupRouter(planService inbound.PlanService, metrics *monitoring.Metrics) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestIDMiddleware())
	engine.Use(s.loggingMiddleware())

	health := handlers.NewHealthHandler(s.config.App.Name, s.config.App.Version)
	engine.GET("/health", health.Check)

	if s.config.Server.EnableMetrics {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
			metrics.Registry,
			promhttp.HandlerOpts{},
		)))
	}

	api := engine.Group("/api/v1")
	{
		planHandler := handlers.NewPlanHandler(planService, s.logger)
		planHandler.RegisterRoutes(api)
	}

	return engine
}

// requestIDMiddleware assigns each request an id, reusing the caller's
// X-Request-ID when present.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware emits one structured log line per request.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("Request completed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// Start begins serving. It blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
