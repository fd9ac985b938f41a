package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memLockStore struct {
	values map[string]string
}

func (m *memLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memLockStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memLockStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func TestRedisLockExclusive(t *testing.T) {
	store := &memLockStore{values: map[string]string{}}
	first, err := NewRedisLock(store, "df:lock:cron", "cron-1", time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, "df:lock:cron", "cron-1", time.Minute)
	ctx := context.Background()

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: %v %v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second instance must not acquire a held lock")
	}
	holder, err := second.Holder(ctx)
	if err != nil || !strings.HasPrefix(holder, "cron-1/") {
		t.Fatalf("expected holder tagged with instance, got %q (%v)", holder, err)
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner: %v", err)
	}
	if _, held := store.values["df:lock:cron"]; !held {
		t.Fatal("non-owner release must not drop the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if holder, _ := first.Holder(ctx); holder != "" {
		t.Fatalf("expected free lock, held by %q", holder)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("lock should be free after release")
	}
}

func TestRedisLockReleaseAfterTakeover(t *testing.T) {
	store := &memLockStore{values: map[string]string{}}
	lock, _ := NewRedisLock(store, "k", "", 0)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	store.values["k"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["k"] != "someone-else" {
		t.Fatal("lock owned by another instance must survive")
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", "cron-1", time.Minute); err == nil {
		t.Fatal("expected error without client")
	}
	if _, err := NewRedisLock(&memLockStore{}, "", "cron-1", time.Minute); err == nil {
		t.Fatal("expected error without key")
	}
}
