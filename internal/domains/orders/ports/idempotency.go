package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different checkout payload.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key to the order it created.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"request_hash"`
	OrderID     string    `json:"order_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IdempotencyStore caches claimed checkout keys outside the order database so
// retries can replay without opening a transaction. The claim made through
// Tx.ClaimIdempotencyKey stays authoritative.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. If the key already exists with the same hash and order
	// the stored record is returned; otherwise ErrIdempotencyConflict is returned with it.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
