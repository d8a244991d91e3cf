package viewcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/viewcache"
)

type refresherFunc func(ctx context.Context, limit int) error

func (f refresherFunc) Refresh(ctx context.Context, limit int) error {
	return f(ctx, limit)
}

func TestNewWarmer_InvalidSchedule(t *testing.T) {
	_, err := viewcache.NewWarmer(context.Background(), refresherFunc(func(context.Context, int) error { return nil }), "not a schedule", 10, time.Second)

	assert.Error(t, err)
}

func TestWarmer_WarmOnce(t *testing.T) {
	var gotLimit int
	var hadDeadline bool
	w, err := viewcache.NewWarmer(context.Background(), refresherFunc(func(ctx context.Context, limit int) error {
		gotLimit = limit
		_, hadDeadline = ctx.Deadline()
		return nil
	}), "@every 1m", 10, time.Second)
	require.NoError(t, err)

	assert.NoError(t, w.WarmOnce(context.Background()))
	assert.Equal(t, 10, gotLimit)
	assert.True(t, hadDeadline)
}

func TestWarmer_RunsOnSchedule(t *testing.T) {
	ran := make(chan int, 4)
	w, err := viewcache.NewWarmer(context.Background(), refresherFunc(func(ctx context.Context, limit int) error {
		ran <- limit
		return nil
	}), "@every 1s", 7, time.Second)
	require.NoError(t, err)

	w.Start()
	defer w.Stop()

	select {
	case limit := <-ran:
		assert.Equal(t, 7, limit)
	case <-time.After(3 * time.Second):
		t.Fatal("warmer did not run")
	}
}
