package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 25 * time.Hour

// Lock keeps two cron workers from scanning inventory at the same time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
	// Holder names the current owner, or "" when the lock is free.
	Holder(ctx context.Context) (string, error)
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock stores "<instance>/<token>" under key with a TTL so a crashed
// worker cannot hold the cycle forever.
type RedisLock struct {
	client   lockStore
	key      string
	ttl      time.Duration
	instance string
	owner    string
}

func NewRedisLock(client lockStore, key, instance string, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if instance == "" {
		instance = "unknown"
	}
	return &RedisLock{client: client, key: key, ttl: ttl, instance: instance}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	owner := l.instance + "/" + uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx %s: %w", l.key, err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release deletes the key only while this instance still owns it.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	current, err := l.Holder(ctx)
	if err != nil {
		return err
	}
	if current != l.owner {
		l.owner = ""
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock %s: %w", l.key, err)
	}
	l.owner = ""
	return nil
}

func (l *RedisLock) Holder(ctx context.Context) (string, error) {
	value, err := l.client.Get(ctx, l.key)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read lock owner: %w", err)
	}
	return value, nil
}
