package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Digest is the per-pharmacy summary written by the near-expiry sweep.
type Digest struct {
	PharmacyID  int64      `json:"pharmacy_id"`
	NearExpiry  int        `json:"near_expiry"`
	Expired     int        `json:"expired"`
	SoonestID   int64      `json:"soonest_offer_id,omitempty"`
	Soonest     *time.Time `json:"soonest_expiry,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type digestKeyer interface {
	DigestKey(pharmacyID string) string
}

// DigestStore reads and writes digests in redis.
type DigestStore struct {
	store kv
	keys  digestKeyer
}

func NewDigestStore(store kv, keys digestKeyer) *DigestStore {
	return &DigestStore{store: store, keys: keys}
}

func (d *DigestStore) Save(ctx context.Context, digest Digest, ttl time.Duration) error {
	encoded, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	if err := d.store.Set(ctx, d.key(digest.PharmacyID), string(encoded), ttl); err != nil {
		return fmt.Errorf("store digest %d: %w", digest.PharmacyID, err)
	}
	return nil
}

// Load returns the last digest for the pharmacy, or nil when none is stored.
func (d *DigestStore) Load(ctx context.Context, pharmacyID int64) (*Digest, error) {
	raw, err := d.store.Get(ctx, d.key(pharmacyID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read digest %d: %w", pharmacyID, err)
	}
	var digest Digest
	if err := json.Unmarshal([]byte(raw), &digest); err != nil {
		return nil, fmt.Errorf("decode digest %d: %w", pharmacyID, err)
	}
	return &digest, nil
}

func (d *DigestStore) key(pharmacyID int64) string {
	return d.keys.DigestKey(strconv.FormatInt(pharmacyID, 10))
}
