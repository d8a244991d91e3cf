package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/block"
	"github.com/shine-music/shine-indexer/internal/config"
	"github.com/shine-music/shine-indexer/internal/emitter"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/providers/ethereum"
	"github.com/shine-music/shine-indexer/internal/providers/jetstream"
	"github.com/shine-music/shine-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadEmitterConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "purchase-event-emitter",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Purchase Event Emitter", zap.String("chain", string(cfg.Chain.ChainID)))

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(), cfg.Database.ReplicaDSNs)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()
	natsJS := adapter.NewNatsJetStream()

	// Initialize the websocket client; subscriptions need a persistent connection
	ethDialer := adapter.NewEthClientDialer()
	ethClient, err := ethDialer.Dial(ctx, cfg.Chain.WebSocketURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial websocket RPC", zap.Error(err))
	}

	blockProvider := block.NewBlockProvider(
		ethereum.NewBlockFetcher(ethClient),
		block.Config{
			TTL:         cfg.Chain.BlockHeadTTL,
			StaleWindow: cfg.Chain.BlockHeadStaleWindow,
		},
		clockAdapter,
	)

	shineClient := ethereum.NewClient(ethereum.ClientConfig{
		ChainID:         cfg.Chain.ChainID,
		ContractAddress: cfg.Chain.ContractAddress,
	}, ethClient, blockProvider)
	defer shineClient.Close()

	// Initialize NATS publisher
	natsPublisher, err := jetstream.NewPublisher(
		ctx,
		jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, natsJS, jsonAdapter)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
	}
	defer natsPublisher.Close()
	logger.InfoCtx(ctx, "Connected to NATS JetStream")

	// Initialize purchase event subscriber
	shineSubscriber := ethereum.NewSubscriber(ethereum.Config{
		WebSocketURL: cfg.Chain.WebSocketURL,
		ChainID:      cfg.Chain.ChainID,
	}, shineClient)
	defer shineSubscriber.Close()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	eventEmitter := emitter.NewEmitter(
		shineSubscriber,
		natsPublisher,
		dataStore,
		emitter.Config{
			ChainID:         cfg.Chain.ChainID,
			StartBlock:      cfg.Chain.StartBlock,
			CursorSaveFreq:  cfg.CursorSaveFreq,
			CursorSaveDelay: cfg.CursorSaveDelay,
		},
		clockAdapter,
	)
	defer eventEmitter.Close()

	// Channel for emitter errors
	errCh := make(chan error, 1)

	// Start the emitter
	go func() {
		if err := eventEmitter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case <-natsPublisher.CloseChan():
		logger.InfoCtx(ctx, "NATS connection closed unexpectedly")
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "emitter"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Purchase Event Emitter stopped")
}
