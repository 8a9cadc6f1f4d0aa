package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrNotFound covers missing products and categories.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCategory is returned when a product references a category that does not exist.
	ErrUnknownCategory = errors.New("category does not exist")
	// ErrCategoryInUse blocks deleting a category that still has products.
	ErrCategoryInUse = ports.ErrCategoryInUse
	// ErrProductInUse blocks deleting a product that orders still reference.
	ErrProductInUse = ports.ErrProductInUse
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidOriginalPrice),
		errors.Is(err, domain.ErrMissingCategory),
		errors.Is(err, domain.ErrInvalidStock),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidPopularity),
		errors.Is(err, ErrUnknownCategory):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, ports.ErrCategoryNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
