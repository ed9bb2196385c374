package lock

import (
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "lock:po:12", Key("po", 12))
}

func TestLocalLockerIsExclusivePerKey(t *testing.T) {
	locker := NewLocal(config.LockConfig{RetryCount: 1, RetryBackoffMillis: 10})
	ctx := context.Background()

	held, err := locker.Obtain(ctx, "lock:po:1")
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "lock:po:1")
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	other, err := locker.Obtain(ctx, "lock:po:2")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, held.Release(ctx))
	require.NoError(t, held.Release(ctx))

	again, err := locker.Obtain(ctx, "lock:po:1")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestLocalLockerWaitsForRelease(t *testing.T) {
	locker := NewLocal(config.LockConfig{RetryCount: 50, RetryBackoffMillis: 10})
	ctx := context.Background()

	held, err := locker.Obtain(ctx, "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = held.Release(ctx)
	}()

	next, err := locker.Obtain(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, next.Release(ctx))
}

func TestLocalLockerHonoursContext(t *testing.T) {
	locker := NewLocal(config.LockConfig{RetryCount: 100, RetryBackoffMillis: 100})
	held, err := locker.Obtain(context.Background(), "k")
	require.NoError(t, err)
	defer held.Release(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locker.Obtain(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
