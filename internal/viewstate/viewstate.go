// Package viewstate fences concurrent loads of the same view so that only the
// most recently started load can publish its result.
package viewstate

import (
	"sync"
	"time"
)

// Ticket identifies one load of one view.
type Ticket struct {
	Key string
	Seq uint64
}

// Guard issues increasing tickets per key. Sequence numbers are unique across
// keys, so a key that is forgotten and begun again never reissues an old one.
type Guard struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

func NewGuard() *Guard {
	return &Guard{latest: make(map[string]uint64)}
}

// Begin starts a new load for key, superseding every earlier ticket.
func (g *Guard) Begin(key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.latest[key] = g.next
	return Ticket{Key: key, Seq: g.next}
}

// IsLatest reports whether t is still the newest ticket for its key.
func (g *Guard) IsLatest(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[t.Key] == t.Seq
}

// Forget drops key. Tickets issued before the call can no longer commit.
func (g *Guard) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.latest, key)
}

// Len returns the number of keys with an outstanding sequence.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.latest)
}

type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL evicts keys that were neither begun nor committed for ttl.
// Zero keeps keys until they are forgotten.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Views stores the last committed value per key.
type Views[T any] struct {
	guard *Guard
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	committed map[string]entry[T]
	touched   map[string]time.Time
	swept     time.Time
}

type entry[T any] struct {
	seq   uint64
	value T
}

func NewViews[T any](opts ...Option) *Views[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Views[T]{
		guard:     NewGuard(),
		ttl:       o.ttl,
		now:       o.now,
		committed: make(map[string]entry[T]),
		touched:   make(map[string]time.Time),
		swept:     o.now(),
	}
}

// Begin issues a ticket for a new load of key.
func (v *Views[T]) Begin(key string) Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.now()
	v.sweepLocked(now)
	v.touched[key] = now
	return v.guard.Begin(key)
}

// Commit stores value when t is the newest ticket for its key. It returns false,
// leaving the committed value untouched, when a newer load has started since.
func (v *Views[T]) Commit(t Ticket, value T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.guard.IsLatest(t) {
		return false
	}
	if cur, ok := v.committed[t.Key]; ok && cur.seq > t.Seq {
		return false
	}
	v.committed[t.Key] = entry[T]{seq: t.Seq, value: value}
	v.touched[t.Key] = v.now()
	return true
}

// Get returns the committed value for key.
func (v *Views[T]) Get(key string) (T, bool) {
	value, _, ok := v.Latest(key)
	return value, ok
}

// Latest returns the committed value for key with the sequence of the load
// that committed it.
func (v *Views[T]) Latest(key string) (T, uint64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	e, ok := v.committed[key]
	if ok && v.expired(key, v.now()) {
		var zero T
		return zero, 0, false
	}
	return e.value, e.seq, ok
}

// Forget drops everything held for key, e.g. on logout.
func (v *Views[T]) Forget(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dropLocked(key)
}

// Len returns the number of keys holding a committed value.
func (v *Views[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.committed)
}

// Pending returns the number of keys the guard still tracks.
func (v *Views[T]) Pending() int {
	return v.guard.Len()
}

func (v *Views[T]) expired(key string, now time.Time) bool {
	if v.ttl <= 0 {
		return false
	}
	at, ok := v.touched[key]
	return !ok || now.Sub(at) >= v.ttl
}

// sweepLocked runs at most once per ttl.
func (v *Views[T]) sweepLocked(now time.Time) {
	if v.ttl <= 0 || now.Sub(v.swept) < v.ttl {
		return
	}
	v.swept = now
	for key := range v.touched {
		if v.expired(key, now) {
			v.dropLocked(key)
		}
	}
}

func (v *Views[T]) dropLocked(key string) {
	delete(v.committed, key)
	delete(v.touched, key)
	v.guard.Forget(key)
}
