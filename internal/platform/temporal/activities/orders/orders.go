package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// PlaceOrderActivityName reserves stock and persists one order.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeNotFound            = "NotFound"
	ErrTypeInsufficientStock   = "InsufficientStock"
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
)

// StockShortage is attached to InsufficientStock failures.
type StockShortage struct {
	ProductID string
	Requested int
	Available int
}

// MissingResource is attached to NotFound failures.
type MissingResource struct {
	Resource string
	ID       string
}

// Activities groups the order activities run by the worker.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order service into the activities bundle. The service
// should carry an idempotency store so a retried activity replays its first result.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs checkout. Business rejections are non-retryable; storage
// failures are retried by the activity policy.
func (a *Activities) PlaceOrder(ctx context.Context, input orderstypes.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized")
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "items", len(input.Items))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "error", err)
		return nil, classify(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

func classify(err error) error {
	var shortage *ordersapp.InsufficientStockError
	if errors.As(err, &shortage) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, err,
			StockShortage{ProductID: shortage.ProductID, Requested: shortage.Requested, Available: shortage.Available})
	}
	var missing *ordersapp.NotFoundError
	if errors.As(err, &missing) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err,
			MissingResource{Resource: missing.Resource, ID: missing.ID})
	}
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersapp.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, err)
	}
	return err
}
