package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/mocks"
)

const (
	fastURL = "https://fast.example/v2/secret"
	slowURL = "https://slow.example/v2/secret"
)

// newTestPool builds a pool where the fast provider ranks first
func newTestPool(t *testing.T, cfg PoolConfig) (*RPCPool, *mocks.MockEthClient, *mocks.MockEthClient) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockEthClientDialer(ctrl)
	fast := mocks.NewMockEthClient(ctrl)
	slow := mocks.NewMockEthClient(ctrl)

	dialer.EXPECT().Dial(gomock.Any(), fastURL).Return(fast, nil)
	dialer.EXPECT().Dial(gomock.Any(), slowURL).Return(slow, nil)
	fast.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(&types.Header{Number: big.NewInt(1)}, nil)
	slow.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).
		DoAndReturn(func(ctx context.Context, number *big.Int) (*types.Header, error) {
			time.Sleep(20 * time.Millisecond)
			return &types.Header{Number: big.NewInt(1)}, nil
		})

	cfg.URLs = []string{slowURL, fastURL}
	pool, err := NewRPCPool(context.Background(), cfg, dialer, adapter.NewClock())
	require.NoError(t, err)
	require.Equal(t, "fast.example", pool.providers[0].name)
	return pool, fast, slow
}

func TestNewRPCPool_NoProviderDialed(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockEthClientDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: i/o timeout")).Times(2)

	_, err := NewRPCPool(context.Background(), PoolConfig{URLs: []string{fastURL, slowURL}}, dialer, adapter.NewClock())
	assert.ErrorIs(t, err, domain.ErrNoProviderAvailable)
}

func TestNewRPCPool_SkipsUndialableProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mocks.NewMockEthClientDialer(ctrl)
	client := mocks.NewMockEthClient(ctrl)

	dialer.EXPECT().Dial(gomock.Any(), fastURL).Return(nil, errors.New("dial tcp: i/o timeout"))
	dialer.EXPECT().Dial(gomock.Any(), slowURL).Return(client, nil)
	client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(&types.Header{Number: big.NewInt(1)}, nil)

	pool, err := NewRPCPool(context.Background(), PoolConfig{URLs: []string{fastURL, slowURL}}, dialer, adapter.NewClock())
	require.NoError(t, err)
	require.Len(t, pool.providers, 1)
	assert.True(t, pool.providers[0].healthy)
}

func TestRPCPool_FailsOverToNextProvider(t *testing.T) {
	pool, fast, slow := newTestPool(t, PoolConfig{ProbeInterval: time.Hour})

	fast.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, errors.New("503 service unavailable"))
	slow.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{0x01}, nil)

	result, err := pool.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, result)

	// the failed provider drops behind the healthy one
	assert.Equal(t, "slow.example", pool.providers[0].name)
	assert.False(t, pool.providers[1].healthy)
}

func TestRPCPool_SkipsUnhealthyProviderUntilInterval(t *testing.T) {
	pool, fast, slow := newTestPool(t, PoolConfig{ProbeInterval: time.Hour})

	fast.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Return(nil, errors.New("502 bad gateway"))
	slow.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Return([]types.Log{{BlockNumber: 1}}, nil).Times(2)

	_, err := pool.FilterLogs(context.Background(), ethereum.FilterQuery{})
	require.NoError(t, err)

	logs, err := pool.FilterLogs(context.Background(), ethereum.FilterQuery{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRPCPool_PermanentErrorIsNotRetried(t *testing.T) {
	pool, fast, _ := newTestPool(t, PoolConfig{ProbeInterval: time.Hour})

	fast.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, errors.New("execution reverted"))

	_, err := pool.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")

	// a revert says nothing about provider health
	assert.True(t, pool.providers[0].healthy)
}

func TestRPCPool_NotFoundIsNotRetried(t *testing.T) {
	pool, fast, _ := newTestPool(t, PoolConfig{ProbeInterval: time.Hour})

	fast.EXPECT().TransactionByHash(gomock.Any(), gomock.Any()).Return(nil, false, ethereum.NotFound)

	_, _, err := pool.TransactionByHash(context.Background(), [32]byte{})
	assert.ErrorIs(t, err, ethereum.NotFound)
}

func TestRPCPool_AllAttemptsFail(t *testing.T) {
	pool, fast, slow := newTestPool(t, PoolConfig{ProbeInterval: time.Hour, MaxCallAttempts: 2})

	fast.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	slow.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := pool.HeaderByNumber(context.Background(), big.NewInt(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRPCPool_NoHealthyProvider(t *testing.T) {
	pool, fast, slow := newTestPool(t, PoolConfig{ProbeInterval: time.Hour, MaxCallAttempts: 2})

	fast.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	slow.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := pool.HeaderByNumber(context.Background(), big.NewInt(10))
	require.Error(t, err)

	_, err = pool.HeaderByNumber(context.Background(), big.NewInt(10))
	assert.ErrorIs(t, err, domain.ErrNoProviderAvailable)
}

func TestRPCPool_Close(t *testing.T) {
	pool, fast, slow := newTestPool(t, PoolConfig{})

	fast.EXPECT().Close()
	slow.EXPECT().Close()

	pool.Close()
}

type recordingThrottle struct {
	providers []string
	err       error
}

func (r *recordingThrottle) Wait(_ context.Context, provider string) error {
	r.providers = append(r.providers, provider)
	return r.err
}

func TestRPCPool_ThrottlesEachAttempt(t *testing.T) {
	throttle := &recordingThrottle{}
	pool, fast, slow := newTestPool(t, PoolConfig{ProbeInterval: time.Hour, Throttle: throttle})

	fast.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, errors.New("429 too many requests"))
	slow.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).Return([]byte{0x01}, nil)

	_, err := pool.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"fast.example", "slow.example"}, throttle.providers)
}

func TestRPCPool_ThrottleErrorAbortsCall(t *testing.T) {
	throttle := &recordingThrottle{err: context.DeadlineExceeded}
	pool, _, _ := newTestPool(t, PoolConfig{ProbeInterval: time.Hour, Throttle: throttle})

	_, err := pool.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, throttle.providers, 1)
	assert.True(t, pool.providers[0].healthy)
}

func TestProviderName(t *testing.T) {
	assert.Equal(t, "base-mainnet.g.alchemy.com", providerName("https://base-mainnet.g.alchemy.com/v2/secret"))
	assert.Equal(t, "localhost:8545", providerName("http://localhost:8545"))
	assert.Equal(t, "unknown", providerName("not a url"))
}
