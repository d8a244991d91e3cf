package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/indexer"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
	eventstream "github.com/shine-music/shine-indexer/internal/providers/jetstream"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 8
	DEFAULT_WORKER_QUEUE_SIZE = 256
)

// Config holds the configuration for the event bridge
type Config struct {
	URL             string
	StreamName      string
	ConsumerName    string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ConnectionName  string
	AckWaitTimeout  time.Duration
	MaxDeliver      int
	WorkerPoolSize  int
	WorkerQueueSize int
}

// Bridge defines the interface for the event bridge
type Bridge interface {
	// Run starts the event bridge
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

// bridge consumes purchase events from JetStream and applies them with the indexer
type bridge struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	indexer indexer.Indexer
	json    adapter.JSON
	config  Config
}

// NewBridge creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	idx indexer.Indexer,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	if cfg.WorkerQueueSize <= 0 {
		cfg.WorkerQueueSize = DEFAULT_WORKER_QUEUE_SIZE
	}

	return &bridge{
		nc:      nc,
		js:      js,
		indexer: idx,
		json:    jsonAdapter,
		config:  cfg,
	}, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	if err := eventstream.EnsureStream(ctx, b.js, b.config.StreamName); err != nil {
		return err
	}

	// Subscribe to all purchase event subjects
	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: eventstream.SubjectPrefix + ".*.>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved",
		zap.String("consumer", consumerInfo.Name),
		zap.Uint64("pending", consumerInfo.NumPending))

	// Bounded worker pool; a full queue blocks delivery until a worker frees up
	pool := pond.NewPool(
		b.config.WorkerPoolSize,
		pond.WithQueueSize(b.config.WorkerQueueSize),
		pond.WithContext(ctx),
	)
	defer func() {
		pool.StopAndWait()
		logger.InfoCtx(ctx, "Bridge worker pool shutdown complete",
			zap.Uint64("total_submitted", pool.SubmittedTasks()),
			zap.Uint64("total_completed", pool.CompletedTasks()))
	}()

	sub, err := consumer.Consume(func(msg adapter.Message) {
		pool.Submit(func() {
			b.handleMessage(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.InfoCtx(ctx, "Started consuming messages")

	select {
	case <-ctx.Done():
		logger.InfoCtx(ctx, "Shutting down event bridge")
		return ctx.Err()
	case <-sub.Closed():
		return errors.New("consumer subscription closed")
	}
}

// handleMessage processes a single NATS message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveryCount uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveryCount = metadata.NumDelivered
	}

	// Parse event
	var event domain.PurchaseEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal event"), zap.String("subject", msg.Subject()))
		// Terminate message for unparseable data
		b.term(ctx, msg)
		return
	}

	logger.InfoCtx(ctx, "Received event",
		zap.String("chain", string(event.Chain)),
		zap.String("kind", string(event.Kind)),
		zap.Uint64s("songIds", event.SongIDs),
		zap.String("txHash", event.TxHash),
		zap.Uint64("deliveryCount", deliveryCount),
	)

	if _, err := b.indexer.HandleEvent(ctx, &event); err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			logger.ErrorCtx(ctx, err, zap.String("message", "Dropping invalid event"), zap.String("txHash", event.TxHash))
			b.term(ctx, msg)
			return
		}

		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to index event"), zap.String("txHash", event.TxHash))
		// NAK to retry; replays are absorbed by the idempotent handlers
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
		metrics.BridgeMessages.WithLabelValues("nak").Inc()
		return
	}

	// ACK message after successful processing
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
	metrics.BridgeMessages.WithLabelValues("ack").Inc()
}

func (b *bridge) term(ctx context.Context, msg adapter.Message) {
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
	metrics.BridgeMessages.WithLabelValues("term").Inc()
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
