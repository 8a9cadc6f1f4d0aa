package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Service exposes catalog browsing and administration to adapters.
type Service interface {
	ListProducts(ctx context.Context, input types.ListProductsInput) (*types.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
