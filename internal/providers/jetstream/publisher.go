package jetstream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/messaging"
	"github.com/shine-music/shine-indexer/internal/metrics"
)

const (
	// SubjectPrefix is the root token of every purchase event subject
	SubjectPrefix = "events"

	// duplicateWindow is how long the stream remembers message ids for de-duplication
	duplicateWindow = 10 * time.Minute
	streamMaxAge    = 7 * 24 * time.Hour
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
	closeOnce  sync.Once
	closed     chan struct{}
}

// NewPublisher creates a new NATS JetStream publisher and makes sure its stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	p := &publisher{
		streamName: cfg.StreamName,
		json:       jsonAdapter,
		closed:     make(chan struct{}),
	}

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
			p.markClosed()
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}
	p.nc = nc
	p.js = js

	if err := EnsureStream(ctx, js, cfg.StreamName); err != nil {
		nc.Close()
		return nil, err
	}

	return p, nil
}

// EnsureStream creates or updates the purchase event stream
func EnsureStream(ctx context.Context, js adapter.JetStream, streamName string) error {
	err := js.EnsureStream(ctx, jetstream.StreamConfig{
		Name:       streamName,
		Subjects:   []string{SubjectPrefix + ".>"},
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		MaxAge:     streamMaxAge,
		Duplicates: duplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", streamName, err)
	}
	return nil
}

// PublishEvent publishes a purchase event to NATS JetStream
func (p *publisher) PublishEvent(ctx context.Context, event *domain.PurchaseEvent) error {
	logger.DebugCtx(ctx, "Publishing Nats event", zap.Any("event", event))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := BuildSubject(event.Chain, event.Kind)

	// The message id lets the stream drop replays of the same log
	_, err = p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.MessageID()))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(string(event.Chain), string(event.Kind)).Inc()
	return nil
}

// BuildSubject constructs the NATS subject of a purchase event
// Format: events.{chain}.{kind}, e.g. events.eip155_8453.insta_buy
func BuildSubject(chain domain.Chain, kind domain.EventKind) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, subjectToken(string(chain)), kind)
}

// subjectToken replaces characters NATS treats as token separators or wildcards
func subjectToken(s string) string {
	return strings.NewReplacer(":", "_", ".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
	p.markClosed()
}

// CloseChan returns a channel that is closed when the connection is closed
func (p *publisher) CloseChan() <-chan struct{} {
	return p.closed
}

func (p *publisher) markClosed() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
}
