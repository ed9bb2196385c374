package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL     = 30 * time.Second
	defaultRetries = 10
	defaultBackoff = 100 * time.Millisecond
)

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtains exclusive locks by key. Failing to obtain one within the retry budget
// yields domain.ErrConcurrentUpdate.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

// Key builds a namespaced lock key, e.g. Key("po", 12) == "lock:po:12".
func Key(kind string, id int64) string {
	return fmt.Sprintf("lock:%s:%d", kind, id)
}

type settings struct {
	ttl     time.Duration
	retries int
	backoff time.Duration
}

func settingsFrom(cfg config.LockConfig) settings {
	s := settings{
		ttl:     time.Duration(cfg.TTLSeconds) * time.Second,
		retries: cfg.RetryCount,
		backoff: time.Duration(cfg.RetryBackoffMillis) * time.Millisecond,
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.retries < 0 {
		s.retries = defaultRetries
	}
	if s.backoff <= 0 {
		s.backoff = defaultBackoff
	}
	return s
}

// New returns a redis-backed locker when client is set, otherwise a process-local one.
func New(client *redis.Client, cfg config.LockConfig) Locker {
	if client == nil {
		return NewLocal(cfg)
	}
	return &redisLocker{
		client:   redislock.New(client),
		settings: settingsFrom(cfg),
	}
}

type redisLocker struct {
	client *redislock.Client
	settings
}

func (l *redisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.retries),
	}

	lk, err := l.client.Obtain(ctx, key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("obtain %s: %w", key, domain.ErrConcurrentUpdate)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", key, err)
	}
	return lk, nil
}

type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	settings
}

// NewLocal returns a locker that only serializes callers within this process.
func NewLocal(cfg config.LockConfig) Locker {
	return &localLocker{
		slots:    make(map[string]chan struct{}),
		settings: settingsFrom(cfg),
	}
}

func (l *localLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	wait := l.backoff * time.Duration(l.retries+1)
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return &localLock{slot: slot}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("obtain %s: %w", key, domain.ErrConcurrentUpdate)
	}
}

type localLock struct {
	once sync.Once
	slot chan struct{}
}

func (l *localLock) Release(ctx context.Context) error {
	l.once.Do(func() { <-l.slot })
	return nil
}
