package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a distributed mutex keyed by string. It serialises mutations of
// one subscription across every replica sharing the Redis instance.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
}

// LockerOption configures a Locker.
type LockerOption func(*Locker)

// WithLockTTL bounds how long a lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) LockerOption {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLockRetryInterval sets how often a waiting Lock polls the key.
func WithLockRetryInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		if d > 0 {
			l.retry = d
		}
	}
}

// WithLockerConfig applies the lock settings from cfg.
func WithLockerConfig(cfg Config) LockerOption {
	return func(l *Locker) {
		WithLockTTL(cfg.LockTTL)(l)
		WithLockRetryInterval(cfg.LockRetryInterval)(l)
	}
}

func NewLocker(client redis.UniversalClient, opts ...LockerOption) *Locker {
	if client == nil {
		panic("redis: nil client")
	}
	l := &Locker{
		client: client,
		ttl:    30 * time.Second,
		retry:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock blocks until key is acquired or ctx is done. The returned func
// releases the lock and is safe to call more than once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.Join(ErrLockUnavailable, err)
		}
		if ok {
			return l.releaser(ctx, key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) releaser(ctx context.Context, key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		})
	}
}
