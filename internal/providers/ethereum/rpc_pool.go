package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
	"github.com/shine-music/shine-indexer/internal/ratelimit"
)

// PoolConfig holds the configuration for the RPC provider pool
type PoolConfig struct {
	URLs []string
	// ProbeTimeout bounds the latency probe of a single provider
	ProbeTimeout time.Duration
	// ProbeInterval is how long an unhealthy provider is skipped before it is tried again
	ProbeInterval time.Duration
	// MaxCallAttempts is the number of providers tried for one call
	MaxCallAttempts int
	// Throttle paces calls per provider; nil leaves calls unpaced
	Throttle ratelimit.Throttle
}

type rpcProvider struct {
	name        string
	client      adapter.EthClient
	latency     time.Duration
	healthy     bool
	lastFailure time.Time
}

// RPCPool is an adapter.EthClient spread over several JSON-RPC providers.
// Calls go to the fastest healthy provider and fail over to the next one on error.
type RPCPool struct {
	mu        sync.RWMutex
	providers []*rpcProvider
	config    PoolConfig
	clock     adapter.Clock
}

// NewRPCPool dials every configured provider and ranks them by probe latency
func NewRPCPool(ctx context.Context, cfg PoolConfig, dialer adapter.EthClientDialer, clock adapter.Clock) (*RPCPool, error) {
	if cfg.MaxCallAttempts <= 0 {
		cfg.MaxCallAttempts = 3
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 3 * time.Second
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 30 * time.Second
	}

	pool := &RPCPool{
		config: cfg,
		clock:  clock,
	}

	for _, rawURL := range cfg.URLs {
		name := providerName(rawURL)
		client, err := dialer.Dial(ctx, rawURL)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to dial RPC provider", zap.String("provider", name), zap.Error(err))
			metrics.RPCProviderErrors.WithLabelValues(name).Inc()
			continue
		}
		pool.providers = append(pool.providers, &rpcProvider{name: name, client: client})
	}

	if len(pool.providers) == 0 {
		return nil, fmt.Errorf("%w: none of %d providers could be dialed", domain.ErrNoProviderAvailable, len(cfg.URLs))
	}

	pool.Probe(ctx)
	return pool, nil
}

// Probe measures the latency of every provider and re-ranks the pool
func (p *RPCPool) Probe(ctx context.Context) {
	p.mu.RLock()
	providers := append([]*rpcProvider(nil), p.providers...)
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, prov := range providers {
		wg.Add(1)
		go func(prov *rpcProvider) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, p.config.ProbeTimeout)
			defer cancel()

			start := p.clock.Now()
			_, err := prov.client.HeaderByNumber(probeCtx, nil)
			if err != nil {
				logger.WarnCtx(ctx, "RPC provider probe failed", zap.String("provider", prov.name), zap.Error(err))
				p.markFailure(prov)
				return
			}
			p.markSuccess(prov, p.clock.Since(start))
		}(prov)
	}
	wg.Wait()

	p.mu.RLock()
	defer p.mu.RUnlock()
	for i, prov := range p.providers {
		logger.DebugCtx(ctx, "RPC provider ranked",
			zap.Int("rank", i),
			zap.String("provider", prov.name),
			zap.Bool("healthy", prov.healthy),
			zap.Duration("latency", prov.latency))
	}
}

// ProbeEvery re-probes the pool on the interval until ctx is done
func (p *RPCPool) ProbeEvery(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(interval):
			p.Probe(ctx)
		}
	}
}

// candidates returns healthy providers by latency, then unhealthy ones whose retry interval has passed
func (p *RPCPool) candidates() []*rpcProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var healthy, recovering []*rpcProvider
	for _, prov := range p.providers {
		switch {
		case prov.healthy:
			healthy = append(healthy, prov)
		case p.clock.Since(prov.lastFailure) >= p.config.ProbeInterval:
			recovering = append(recovering, prov)
		}
	}

	return append(healthy, recovering...)
}

func (p *RPCPool) markSuccess(prov *rpcProvider, latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prov.latency == 0 || !prov.healthy {
		prov.latency = latency
	} else {
		// moving average keeps one slow call from reordering the pool
		prov.latency = (prov.latency*4 + latency) / 5
	}
	prov.healthy = true
	p.rank()
}

func (p *RPCPool) markFailure(prov *rpcProvider) {
	metrics.RPCProviderErrors.WithLabelValues(prov.name).Inc()

	p.mu.Lock()
	defer p.mu.Unlock()

	prov.healthy = false
	prov.lastFailure = p.clock.Now()
	p.rank()
}

// rank orders providers healthy first, then by latency; callers hold the write lock
func (p *RPCPool) rank() {
	sort.SliceStable(p.providers, func(i, j int) bool {
		a, b := p.providers[i], p.providers[j]
		if a.healthy != b.healthy {
			return a.healthy
		}
		return a.latency < b.latency
	})
}

// call runs fn against the ranked providers until one succeeds or the attempts run out
func call[T any](ctx context.Context, p *RPCPool, method string, fn func(adapter.EthClient) (T, error)) (T, error) {
	var result T

	candidates := p.candidates()
	if len(candidates) == 0 {
		return result, domain.ErrNoProviderAvailable
	}

	attempt := 0
	operation := func() error {
		prov := candidates[attempt%len(candidates)]
		attempt++

		if p.config.Throttle != nil {
			if err := p.config.Throttle.Wait(ctx, prov.name); err != nil {
				return backoff.Permanent(err)
			}
		}

		start := p.clock.Now()
		r, err := fn(prov.client)
		if err != nil {
			if isPermanentCallError(ctx, err) {
				return backoff.Permanent(err)
			}
			p.markFailure(prov)
			return fmt.Errorf("%s via %s: %w", method, prov.name, err)
		}

		p.markSuccess(prov, p.clock.Since(start))
		result = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.config.MaxCallAttempts-1)), ctx), //nolint:gosec,G115
		func(err error, d time.Duration) {
			logger.WarnCtx(ctx, "RPC call failed, failing over",
				zap.String("method", method),
				zap.Int("attempt", attempt),
				zap.Duration("retryIn", d),
				zap.Error(err))
		},
	)
	if err != nil {
		return result, err
	}

	return result, nil
}

// isPermanentCallError reports errors that another provider would return as well
func isPermanentCallError(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, ethereum.NotFound) || isTooManyResultsError(err) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "execution reverted")
}

// providerName returns a label for a provider URL without its path or credentials
func providerName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// SubscribeFilterLogs subscribes to filter logs on the first provider that supports it
func (p *RPCPool) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return call(ctx, p, "eth_subscribe", func(c adapter.EthClient) (ethereum.Subscription, error) {
		return c.SubscribeFilterLogs(ctx, query, ch)
	})
}

// FilterLogs retrieves logs that match the filter query
func (p *RPCPool) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return call(ctx, p, "eth_getLogs", func(c adapter.EthClient) ([]types.Log, error) {
		return c.FilterLogs(ctx, query)
	})
}

// HeaderByNumber returns a header by number, nil for the latest
func (p *RPCPool) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return call(ctx, p, "eth_getBlockByNumber", func(c adapter.EthClient) (*types.Header, error) {
		return c.HeaderByNumber(ctx, number)
	})
}

// TransactionByHash returns the transaction with the given hash
func (p *RPCPool) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	type txResult struct {
		tx      *types.Transaction
		pending bool
	}
	r, err := call(ctx, p, "eth_getTransactionByHash", func(c adapter.EthClient) (txResult, error) {
		tx, pending, err := c.TransactionByHash(ctx, hash)
		return txResult{tx: tx, pending: pending}, err
	})
	return r.tx, r.pending, err
}

// CallContract executes a read-only contract call
func (p *RPCPool) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return call(ctx, p, "eth_call", func(c adapter.EthClient) ([]byte, error) {
		return c.CallContract(ctx, msg, blockNumber)
	})
}

// Close closes every provider connection
func (p *RPCPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, prov := range p.providers {
		prov.client.Close()
	}
}

var _ adapter.EthClient = (*RPCPool)(nil)
