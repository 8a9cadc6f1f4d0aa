package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Inventory is the product stock the in-memory ledger reads and writes.
// The catalog memory repository implements it so both views share one counter.
type Inventory interface {
	Stock(productID string) (int, bool)
	SetStock(productID string, stock int) bool
}

// Repository is an in-memory order store. Transactions are serialized behind
// one mutex and their writes are staged until fn returns nil.
type Repository struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	keys      map[string]ports.IdempotencyRecord
	inventory Inventory
}

// NewRepository builds an empty order store on top of the given inventory.
func NewRepository(inventory Inventory) *Repository {
	if inventory == nil {
		inventory = NewStockTable(nil)
	}
	return &Repository{
		orders:    map[string]*domain.Order{},
		keys:      map[string]ports.IdempotencyRecord{},
		inventory: inventory,
	}
}

// WithinTx runs fn with exclusive access to orders and stock.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &memoryTx{
		repo:   r,
		stock:  map[string]int{},
		orders: map[string]*domain.Order{},
		keys:   map[string]ports.IdempotencyRecord{},
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, query ports.ListQuery) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if matches(order, query) {
			matched = append(matched, order.Clone())
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)
	total := int64(len(matched))
	start := min(max(query.Offset, 0), len(matched))
	end := len(matched)
	if query.Limit > 0 {
		end = min(start+query.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.OwnedBy(userID) {
			list = append(list, order.Clone())
		}
	}
	r.mu.RUnlock()
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) CountByProduct(_ context.Context, productID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, order := range r.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				count++
				break
			}
		}
	}
	return count, nil
}

type memoryTx struct {
	repo   *Repository
	stock  map[string]int
	orders map[string]*domain.Order
	keys   map[string]ports.IdempotencyRecord
}

func (t *memoryTx) ReadStock(_ context.Context, productID string) (int, error) {
	if stock, ok := t.stock[productID]; ok {
		return stock, nil
	}
	stock, ok := t.repo.inventory.Stock(productID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ports.ErrProductNotFound, productID)
	}
	return stock, nil
}

func (t *memoryTx) AdjustStock(ctx context.Context, productID string, delta int) error {
	stock, err := t.ReadStock(ctx, productID)
	if err != nil {
		return err
	}
	if stock+delta < 0 {
		return fmt.Errorf("%w: %s", ports.ErrInsufficientStock, productID)
	}
	t.stock[productID] = stock + delta
	return nil
}

func (t *memoryTx) Insert(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if _, err := t.lookup(order.ID); err == nil {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	t.orders[order.ID] = order.Clone()
	return nil
}

func (t *memoryTx) LockOrder(_ context.Context, id string) (*domain.Order, error) {
	order, err := t.lookup(id)
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

func (t *memoryTx) UpdateStatus(_ context.Context, id string, status domain.Status, updatedAt time.Time) error {
	order, err := t.lookup(id)
	if err != nil {
		return err
	}
	staged := order.Clone()
	staged.Status = status
	staged.UpdatedAt = updatedAt
	t.orders[id] = staged
	return nil
}

func (t *memoryTx) ClaimIdempotencyKey(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if record.Key == "" {
		return nil, errors.New("idempotency key is required")
	}
	if existing, ok := t.keys[record.Key]; ok {
		return &existing, nil
	}
	t.repo.mu.RLock()
	existing, ok := t.repo.keys[record.Key]
	t.repo.mu.RUnlock()
	if ok {
		return &existing, nil
	}
	t.keys[record.Key] = record
	return nil, nil
}

func (t *memoryTx) lookup(id string) (*domain.Order, error) {
	if order, ok := t.orders[id]; ok {
		return order, nil
	}
	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()
	if order, ok := t.repo.orders[id]; ok {
		return order, nil
	}
	return nil, ports.ErrNotFound
}

func (t *memoryTx) commit() {
	for productID, stock := range t.stock {
		t.repo.inventory.SetStock(productID, stock)
	}
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, order := range t.orders {
		t.repo.orders[id] = order
	}
	for key, record := range t.keys {
		t.repo.keys[key] = record
	}
}

func matches(order *domain.Order, query ports.ListQuery) bool {
	if query.Status != nil && order.Status != *query.Status {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(query.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.Customer.Name), search) ||
		strings.Contains(strings.ToLower(order.Customer.Email), search) ||
		strings.Contains(strings.ToLower(order.ID), search)
}

func sortNewestFirst(list []*domain.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
