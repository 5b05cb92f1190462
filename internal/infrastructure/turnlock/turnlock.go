// Package turnlock serializes assistant turns of the same conversation.
package turnlock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrBusy is returned when the lock could not be taken before the context ended.
var ErrBusy = errors.New("turn lock is held by another request")

// Redis locks across replicas with a redsync mutex per key.
type Redis struct {
	client redis.UniversalClient
	rs     *redsync.Redsync
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedis connects to the Redis deployment at redisURL.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration, log zerolog.Logger) (*Redis, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return newRedis(client, ttl, log), nil
}

func newRedis(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Redis {
	return &Redis{
		client: client,
		rs:     redsync.New(goredis.NewPool(client)),
		ttl:    ttl,
		log:    log.With().Str("component", "turnlock").Logger(),
	}
}

// Lock blocks until key is free or ctx ends.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	mutex := r.rs.NewMutex("lock:"+key,
		redsync.WithExpiry(r.ttl),
		redsync.WithTries(64),
		redsync.WithRetryDelay(250*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrBusy, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			r.log.Error().Err(err).Str("key", key).Msg("failed to release turn lock")
		}
	}, nil
}

// HealthCheck pings Redis.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Local locks within a single process.
type Local struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{locks: make(map[string]*localLock)}
}

// Lock blocks until key is free or ctx ends.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lock, false)
		return nil, fmt.Errorf("%w: %v", ErrBusy, ctx.Err())
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(key, lock, true) }) }, nil
}

func (l *Local) release(key string, lock *localLock, held bool) {
	if held {
		<-lock.ch
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}
