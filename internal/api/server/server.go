package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/aggregator"
	"github.com/shine-music/shine-indexer/internal/api/middleware"
	"github.com/shine-music/shine-indexer/internal/api/rest"
	"github.com/shine-music/shine-indexer/internal/api/shared/executor"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RateLimitPerMinute enables per-client rate limiting when positive and redis is set
	RateLimitPerMinute int
	// CORSOrigins restricts cross-origin reads; empty allows any origin
	CORSOrigins []string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	store      store.Store
	views      aggregator.Aggregator
	songs      aggregator.SongReader
	redis      adapter.RedisClient
	httpServer *http.Server
}

// New creates a new API server; redis may be nil
func New(cfg Config, store store.Store, views aggregator.Aggregator, songs aggregator.SongReader, redis adapter.RedisClient) *Server {
	return &Server{
		config: cfg,
		store:  store,
		views:  views,
		songs:  songs,
		redis:  redis,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.CORSOrigins))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limiter gin.HandlerFunc
	if s.redis != nil && s.config.RateLimitPerMinute > 0 {
		limiter = middleware.RateLimit(s.redis.NewRateLimiter(), s.config.RateLimitPerMinute)
	}

	exec := executor.NewExecutor(s.store, s.views, s.songs, s.redis)
	rest.SetupRoutes(router, rest.NewHandler(exec), limiter)

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
