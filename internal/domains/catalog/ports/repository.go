package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has products")
	ErrProductInUse     = errors.New("product is referenced by orders")
)

// SortOrder selects the product listing order.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "priceAsc"
	SortPriceDesc SortOrder = "priceDesc"
)

// ProductQuery filters and pages the product listing.
type ProductQuery struct {
	CategoryID string
	Search     string
	Sort       SortOrder
	Offset     int
	Limit      int
}

// ProductRepository stores products. Update never writes stock.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query ProductQuery) ([]*domain.Product, int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// ProductReferences reports how many orders still point at a product.
type ProductReferences interface {
	CountByProduct(ctx context.Context, productID string) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Category, error)
}
