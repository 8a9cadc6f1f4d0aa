package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// Service runs the order lifecycle: checkout, administrative status changes and
// customer cancellation, each applied together with its stock movement.
type Service struct {
	repo        ports.Repository
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// Option customizes the Service.
type Option func(*Service)

// WithIdempotencyStore adds a cache of claimed checkout keys so retries replay
// without opening a transaction. Keys are claimed in the order transaction either way.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithEventPublisher publishes order events after each committed transaction.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithLogger sets the logger used for failures that do not fail the call.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order and item id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the order service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		events: ports.NoopEventPublisher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// errKeyClaimed rolls back a checkout whose idempotency key already belongs to another order.
var errKeyClaimed = errors.New("idempotency key already claimed")

// PlaceOrder validates the cart, checks every product's stock under lock, then
// inserts the order and reserves its stock in the same transaction. A checkout
// carrying an idempotency key claims it in that transaction too, so a retry
// either replays the committed order or fails with ErrIdempotencyConflict.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var claim ports.IdempotencyRecord
	if key != "" {
		fingerprint, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		claim = ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			OrderID:     order.ID,
			CreatedAt:   order.CreatedAt,
			UpdatedAt:   order.CreatedAt,
		}
		replayed, err := s.replayCached(ctx, claim)
		if err != nil || replayed != nil {
			return replayed, err
		}
	}

	reservation := reservationDeltas(order)
	var existing *ports.IdempotencyRecord
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		if key != "" {
			prior, err := tx.ClaimIdempotencyKey(ctx, claim)
			if err != nil {
				return err
			}
			if prior != nil {
				existing = prior
				return errKeyClaimed
			}
		}
		if err := checkAvailability(ctx, tx, reservation); err != nil {
			return err
		}
		if err := tx.Insert(ctx, order); err != nil {
			return err
		}
		return applyDeltas(ctx, tx, reservation)
	})
	if errors.Is(err, errKeyClaimed) && existing != nil {
		return s.replay(ctx, *existing, claim.RequestHash)
	}
	if err != nil {
		return nil, mapError(err)
	}

	if key != "" {
		s.cacheKey(ctx, claim)
	}
	s.publish(ctx, domain.NewOrderPlaced(order))
	return order, nil
}

// UpdateOrderStatus moves an order to any status and applies the matching stock delta atomically.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	var (
		updated *domain.Order
		event   domain.OrderStatusChanged
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		next, err := domain.ParseStatus(status)
		if err != nil {
			return err
		}
		deltas := order.StockDeltas(next)
		if err := checkAvailability(ctx, tx, deltas); err != nil {
			return err
		}
		from := order.Status
		if err := order.TransitionTo(next, s.now()); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, order.ID, order.Status, order.UpdatedAt); err != nil {
			return err
		}
		if err := applyDeltas(ctx, tx, deltas); err != nil {
			return err
		}
		updated = order
		event = domain.OrderStatusChanged{OrderID: order.ID, From: from, To: next, Deltas: deltas, At: order.UpdatedAt}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, event)
	return updated, nil
}

// CancelOrder is the customer path: the requester must own the order and it
// must still be PENDING. Every item's quantity returns to stock.
func (s *Service) CancelOrder(ctx context.Context, orderID string, requesterID string) (*domain.Order, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, fmt.Errorf("%w: sign in to cancel an order", ErrUnauthorized)
	}
	orderID = strings.TrimSpace(orderID)
	var (
		cancelled *domain.Order
		event     domain.OrderStatusChanged
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, err := lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := order.CheckCancellableBy(requesterID); err != nil {
			return err
		}
		deltas := order.StockDeltas(domain.StatusCancelled)
		from := order.Status
		if err := order.TransitionTo(domain.StatusCancelled, s.now()); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, order.ID, order.Status, order.UpdatedAt); err != nil {
			return err
		}
		if err := applyDeltas(ctx, tx, deltas); err != nil {
			return err
		}
		cancelled = order
		event = domain.OrderStatusChanged{OrderID: order.ID, From: from, To: domain.StatusCancelled, Deltas: deltas, At: order.UpdatedAt}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, event)
	return cancelled, nil
}

// GetOrder loads one order with its items.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	order, err := s.repo.GetByID(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrders returns a page of orders, newest first, filtered by a
// case-insensitive search on name, email or id and an optional status.
func (s *Service) GetOrders(ctx context.Context, input types.ListOrdersInput) (*types.OrderPage, error) {
	input = input.Normalize()
	query := ports.ListQuery{
		Offset: (input.Page - 1) * input.Limit,
		Limit:  input.Limit,
		Search: strings.TrimSpace(input.Search),
	}
	if raw := strings.TrimSpace(input.Status); raw != "" && !strings.EqualFold(raw, "all") {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		query.Status = &status
	}
	orders, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return &types.OrderPage{
		Orders:      orders,
		TotalOrders: total,
		TotalPages:  int((total + int64(input.Limit) - 1) / int64(input.Limit)),
		Page:        input.Page,
		Limit:       input.Limit,
	}, nil
}

// ListUserOrders returns the orders attributed to a signed-in customer.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: sign in to view orders", ErrUnauthorized)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Restock adds units to a product through the inventory ledger.
func (s *Service) Restock(ctx context.Context, productID string, quantity int) error {
	productID = strings.TrimSpace(productID)
	if quantity <= 0 {
		return fmt.Errorf("%w: restock quantity must be greater than zero", ErrInvalidInput)
	}
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		return applyDeltas(ctx, tx, []domain.StockDelta{{ProductID: productID, Delta: quantity}})
	})
	return mapError(err)
}

func (s *Service) buildOrder(input types.PlaceOrderInput) (*domain.Order, error) {
	items := make([]domain.Item, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.Item{
			ID:        s.newID(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return domain.NewOrder(domain.NewOrderParams{
		ID: s.newID(),
		Customer: domain.Customer{
			Name:    input.Name,
			Email:   input.Email,
			Phone:   input.Phone,
			Address: input.Address,
		},
		UserID:    input.UserID,
		Items:     items,
		Total:     input.Total,
		CreatedAt: s.now(),
	})
}

// replayCached answers from the key cache when one is configured. A miss or a
// cache failure falls through to the transactional claim.
func (s *Service) replayCached(ctx context.Context, claim ports.IdempotencyRecord) (*domain.Order, error) {
	if s.idempotency == nil {
		return nil, nil
	}
	record, err := s.idempotency.Get(ctx, claim.Key)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "idempotency cache lookup failed",
			slog.String("error", err.Error()))
		return nil, nil
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != claim.RequestHash {
		return nil, ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// replay returns the order that owns a claimed key.
func (s *Service) replay(ctx context.Context, record ports.IdempotencyRecord, fingerprint string) (*domain.Order, error) {
	if record.RequestHash != fingerprint {
		return nil, ErrIdempotencyConflict
	}
	order, err := s.repo.GetByID(ctx, record.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s for idempotency key: %w", record.OrderID, err)
	}
	s.cacheKey(ctx, record)
	return order, nil
}

func (s *Service) cacheKey(ctx context.Context, record ports.IdempotencyRecord) {
	if s.idempotency == nil {
		return
	}
	if _, err := s.idempotency.Save(ctx, record); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to cache idempotency key",
			slog.String("order.id", record.OrderID), slog.String("error", err.Error()))
	}
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event.type", event.EventType()),
			slog.String("order.id", event.AggregateID()),
			slog.String("error", err.Error()))
	}
}

func lockOrder(ctx context.Context, tx ports.Tx, orderID string) (*domain.Order, error) {
	order, err := tx.LockOrder(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	return order, err
}

func reservationDeltas(order *domain.Order) []domain.StockDelta {
	demand := order.Demand()
	deltas := make([]domain.StockDelta, 0, len(demand))
	for _, d := range demand {
		deltas = append(deltas, domain.StockDelta{ProductID: d.ProductID, Delta: -d.Quantity})
	}
	return deltas
}

// checkAvailability locks every product that loses stock and fails before any
// write if one of them cannot cover its share.
func checkAvailability(ctx context.Context, ledger ports.InventoryLedger, deltas []domain.StockDelta) error {
	for _, d := range deltas {
		if d.Delta >= 0 {
			continue
		}
		available, err := ledger.ReadStock(ctx, d.ProductID)
		if err != nil {
			return ledgerError(err, d.ProductID, -d.Delta)
		}
		if available < -d.Delta {
			return &InsufficientStockError{ProductID: d.ProductID, Requested: -d.Delta, Available: available}
		}
	}
	return nil
}

func applyDeltas(ctx context.Context, ledger ports.InventoryLedger, deltas []domain.StockDelta) error {
	for _, d := range deltas {
		if err := ledger.AdjustStock(ctx, d.ProductID, d.Delta); err != nil {
			return ledgerError(err, d.ProductID, -d.Delta)
		}
	}
	return nil
}

func ledgerError(err error, productID string, requested int) error {
	switch {
	case errors.Is(err, ports.ErrProductNotFound):
		return &NotFoundError{Resource: "product", ID: productID}
	case errors.Is(err, ports.ErrInsufficientStock):
		return &InsufficientStockError{ProductID: productID, Requested: requested}
	default:
		return err
	}
}

var _ ports.Service = (*Service)(nil)
