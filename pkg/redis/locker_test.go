package redis_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/redis"
)

var _ cashier.Locker = (*redis.Locker)(nil)

func newLocker(t *testing.T, opts ...redis.LockerOption) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	opts = append([]redis.LockerOption{redis.WithLockRetryInterval(5 * time.Millisecond)}, opts...)
	return redis.NewLocker(client, opts...), mr
}

func TestLocker_LockUnlock(t *testing.T) {
	t.Parallel()
	l, mr := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "cashier:subscription:SUB_1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("cashier:subscription:SUB_1"))

	unlock()
	unlock()
	assert.False(t, mr.Exists("cashier:subscription:SUB_1"))

	unlock, err = l.Lock(ctx, "cashier:subscription:SUB_1")
	require.NoError(t, err)
	unlock()
}

func TestLocker_WaitsForHolder(t *testing.T) {
	t.Parallel()
	l, _ := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release, err := l.Lock(ctx, "k")
		if err == nil {
			release()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(30 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLocker_ContextTimeout(t *testing.T) {
	t.Parallel()
	l, _ := newLocker(t)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	t.Parallel()
	l, mr := newLocker(t, redis.WithLockTTL(time.Second))
	ctx := context.Background()

	stale, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("k"))

	fresh()
	assert.False(t, mr.Exists("k"))
}

func TestLocker_MutualExclusion(t *testing.T) {
	t.Parallel()
	l, _ := newLocker(t)
	ctx := context.Background()

	var (
		inside  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "k")
			if !assert.NoError(t, err) {
				return
			}
			if inside.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
}

func TestNewLocker_NilClientPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { redis.NewLocker(nil) })
}
