package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/aggregator"
	"github.com/shine-music/shine-indexer/internal/api/server"
	"github.com/shine-music/shine-indexer/internal/block"
	"github.com/shine-music/shine-indexer/internal/config"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/providers/ethereum"
	"github.com/shine-music/shine-indexer/internal/ratelimit"
	"github.com/shine-music/shine-indexer/internal/store"
	"github.com/shine-music/shine-indexer/internal/viewcache"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Shine Indexer API")

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(), cfg.Database.ReplicaDSNs)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Int("replicas", len(cfg.Database.ReplicaDSNs)),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Redis backs the view cache, the rate limiters and the shared RPC budget; all are optional
	var redisClient adapter.RedisClient
	var rpcLimiter adapter.RedisRateLimiter
	if cfg.Redis.Addr != "" {
		redisClient = adapter.NewRedisClient(adapter.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close Redis client", zap.Error(err))
			}
		}()
		rpcLimiter = redisClient.NewRateLimiter()
	} else {
		logger.WarnCtx(ctx, "Redis not configured, view cache and rate limiting disabled")
	}

	// Connect to the RPC providers; calls fail over in latency order
	rpcPool, err := ethereum.NewRPCPool(ctx, ethereum.PoolConfig{
		URLs:            cfg.Chain.RPCURLs,
		ProbeTimeout:    cfg.Chain.ProbeTimeout,
		ProbeInterval:   cfg.Chain.ProbeInterval,
		MaxCallAttempts: cfg.Chain.MaxCallAttempts,
		Throttle:        ratelimit.NewThrottle(ratelimit.Config{
			RequestsPerSecond: cfg.Chain.RPCRequestsPerSecond,
			Burst:             cfg.Chain.RPCBurst,
		}, rpcLimiter, clockAdapter),
	}, adapter.NewEthClientDialer(), clockAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to RPC providers", zap.Error(err))
	}
	go rpcPool.ProbeEvery(ctx, cfg.Chain.ProbeInterval)

	blockProvider := block.NewBlockProvider(
		ethereum.NewBlockFetcher(rpcPool),
		block.Config{
			TTL:         cfg.Chain.BlockHeadTTL,
			StaleWindow: cfg.Chain.BlockHeadStaleWindow,
		},
		clockAdapter,
	)

	shineClient := ethereum.NewClient(ethereum.ClientConfig{
		ChainID:         cfg.Chain.ChainID,
		ContractAddress: cfg.Chain.ContractAddress,
	}, rpcPool, blockProvider)
	defer shineClient.Close()

	// Create the view aggregator
	var views aggregator.Aggregator = aggregator.New(shineClient, shineClient, aggregator.Config{
		LookbackBlocks:     cfg.Aggregator.LookbackBlocks,
		TopSongsCap:        cfg.Aggregator.TopSongsCap,
		MetadataBatchSize:  cfg.Aggregator.MetadataBatchSize,
		BatchDelay:         cfg.Aggregator.BatchDelay,
		MetadataTimeout:    cfg.Aggregator.MetadataTimeout,
		LogQueryDelay:      cfg.Aggregator.LogQueryDelay,
		RecentFallbackScan: cfg.Aggregator.RecentFallbackScan,
		ArtistFallbackScan: cfg.Aggregator.ArtistFallbackScan,
		MaxLimit:           cfg.Aggregator.MaxLimit,
		MetadataCacheSize:  cfg.Aggregator.MetadataCacheSize,
		MetadataCacheTTL:   cfg.Aggregator.MetadataCacheTTL,
	}, clockAdapter)
	defer views.Close()

	if redisClient != nil {
		viewCache := viewcache.New(views, redisClient, jsonAdapter, cfg.Redis.ViewTTL)
		views = viewCache

		warmer, err := viewcache.NewWarmer(ctx, viewCache, cfg.Redis.WarmSchedule, cfg.Redis.WarmLimit, cfg.Aggregator.MetadataTimeout*4)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create view warmer", zap.Error(err))
		}
		warmer.Start()
		defer warmer.Stop()
		logger.InfoCtx(ctx, "View cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.ViewTTL))
	}

	serverConfig := server.Config{
		Debug:              cfg.Debug,
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:       time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:        time.Duration(cfg.Server.IdleTimeout) * time.Second,
		RateLimitPerMinute: cfg.Redis.RateLimitPerMinute,
		CORSOrigins:        cfg.Server.CORSOrigins,
	}

	srv := server.New(serverConfig, dataStore, views, shineClient, redisClient)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
