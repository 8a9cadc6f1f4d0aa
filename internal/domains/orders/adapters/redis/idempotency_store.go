package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// DefaultKeyTTL bounds how long a checkout key can be replayed.
const DefaultKeyTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in Redis with a TTL.
type IdempotencyStore struct {
	rdb goredis.Cmdable
	ttl time.Duration
	now func() time.Time
}

// NewIdempotencyStore wires a Redis-backed store. A non-positive ttl uses DefaultKeyTTL.
func NewIdempotencyStore(rdb goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func key(k string) string {
	return fmt.Sprintf("storefront:checkout:idem:%s", k)
}

func (s *IdempotencyStore) Get(ctx context.Context, k string) (*ports.IdempotencyRecord, error) {
	raw, err := s.rdb.Get(ctx, key(k)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &record, nil
}

// Save claims the key with SETNX. A lost race compares against the stored record.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	now := s.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	claimed, err := s.rdb.SetNX(ctx, key(record.Key), raw, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if claimed {
		return &record, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("idempotency key %q expired during save", record.Key)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}
