package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrNotFound covers missing orders and missing products.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is the kind behind InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnauthorized covers a missing requester and a requester who does not own the order.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition is returned when a customer cancels a shipped or delivered order.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyCancelled is returned when a customer cancels a cancelled order.
	ErrAlreadyCancelled = errors.New("order already cancelled")
	// ErrIdempotencyConflict is returned when a checkout key is reused with a different payload.
	ErrIdempotencyConflict = ports.ErrIdempotencyConflict
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError names the product that could not cover the request.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrMissingProductID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrMissingCustomer),
		errors.Is(err, domain.ErrTotalMismatch),
		errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrNotOwner):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case errors.Is(err, domain.ErrAlreadyFulfilled):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return fmt.Errorf("%w: %w", ErrAlreadyCancelled, err)
	}
	return err
}
