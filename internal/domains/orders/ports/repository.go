package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InventoryLedger reads and adjusts product stock inside a transaction.
type InventoryLedger interface {
	// ReadStock returns the current stock and holds a row lock until the transaction ends.
	ReadStock(ctx context.Context, productID string) (int, error)
	// AdjustStock applies stock = stock + delta. A delta that would drive stock
	// below zero fails with ErrInsufficientStock and changes nothing.
	AdjustStock(ctx context.Context, productID string, delta int) error
}

// Tx is the unit of work handed to Repository.WithinTx.
type Tx interface {
	InventoryLedger
	Insert(ctx context.Context, order *domain.Order) error
	// LockOrder loads an order with its items and locks it for the rest of the transaction.
	LockOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	// ClaimIdempotencyKey records the key with the transaction's writes. When the key
	// is already claimed it returns the existing record and stores nothing.
	ClaimIdempotencyKey(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

// ListQuery filters the administrative order listing.
type ListQuery struct {
	Offset int
	Limit  int
	Search string
	Status *domain.Status
}

// Repository persists orders and provides the transactional boundary for stock moves.
type Repository interface {
	// WithinTx runs fn in one transaction. Any error from fn rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) ([]*domain.Order, int64, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// CountByProduct reports how many orders hold an item for the product.
	CountByProduct(ctx context.Context, productID string) (int64, error)
}
