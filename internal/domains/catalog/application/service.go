package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// Service orchestrates the catalog use cases.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	references ports.ProductReferences
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides product and category id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithProductReferences makes DeleteProduct refuse products that orders still hold.
func WithProductReferences(refs ports.ProductReferences) Option {
	return func(s *Service) { s.references = refs }
}

// NewService wires the catalog service with its repositories.
func NewService(products ports.ProductRepository, categories ports.CategoryRepository, opts ...Option) *Service {
	s := &Service{
		products:   products,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListProducts returns one page of products matching the filter.
func (s *Service) ListProducts(ctx context.Context, input types.ListProductsInput) (*types.ProductPage, error) {
	input = input.Normalize()
	sort, err := parseSort(input.SortBy)
	if err != nil {
		return nil, err
	}
	products, total, err := s.products.List(ctx, ports.ProductQuery{
		CategoryID: strings.TrimSpace(input.CategoryID),
		Search:     strings.TrimSpace(input.Search),
		Sort:       sort,
		Offset:     (input.PageNumber - 1) * input.PageSize,
		Limit:      input.PageSize,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &types.ProductPage{
		Products:   products,
		TotalCount: total,
		PageCount:  int((total + int64(input.PageSize) - 1) / int64(input.PageSize)),
		PageNumber: input.PageNumber,
		PageSize:   input.PageSize,
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// CreateProduct validates the product and its category, then stores it with its opening stock.
func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	isNew := true
	if input.IsNew != nil {
		isNew = *input.IsNew
	}
	product, err := domain.NewProduct(domain.NewProductParams{
		ID:             s.newID(),
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		CategoryID:     input.CategoryID,
		Stock:          input.Stock,
		Rating:         input.Rating,
		Popularity:     input.Popularity,
		IsNew:          isNew,
		Specifications: input.Specifications,
		Images:         input.Images,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.requireCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// UpdateProduct applies a partial update. Stock is never touched here.
func (s *Service) UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyUpdate(product, input); err != nil {
		return nil, mapError(err)
	}
	if input.CategoryID != nil {
		if err := s.requireCategory(ctx, product.CategoryID); err != nil {
			return nil, err
		}
	}
	product.UpdatedAt = s.now()
	if err := s.products.Update(ctx, product); err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// DeleteProduct removes a product that no order references.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return mapError(err)
	}
	if s.references != nil {
		count, err := s.references.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrProductInUse
		}
	}
	return mapError(s.products.Delete(ctx, id))
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return category, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(s.newID(), name, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, mapError(err)
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, name string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := category.Rename(name); err != nil {
		return nil, mapError(err)
	}
	category.UpdatedAt = s.now()
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, mapError(err)
	}
	return category, nil
}

// DeleteCategory removes an empty category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return mapError(err)
	}
	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return mapError(s.categories.Delete(ctx, id))
}

func (s *Service) requireCategory(ctx context.Context, id string) error {
	_, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return mapError(ErrUnknownCategory)
	}
	return mapError(err)
}

func parseSort(raw string) (ports.SortOrder, error) {
	switch sort := ports.SortOrder(strings.TrimSpace(raw)); sort {
	case "":
		return ports.SortNewest, nil
	case ports.SortNewest, ports.SortPriceAsc, ports.SortPriceDesc:
		return sort, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, raw)
}

func applyUpdate(target *domain.Product, input types.UpdateProductInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		if err := target.Describe(*input.Description); err != nil {
			return err
		}
	}
	if input.Price != nil || input.OriginalPrice != nil {
		price := target.Price
		if input.Price != nil {
			price = *input.Price
		}
		original := target.OriginalPrice
		if input.OriginalPrice != nil {
			original = input.OriginalPrice
		}
		if err := target.Reprice(price, original); err != nil {
			return err
		}
	}
	if input.CategoryID != nil {
		if err := target.MoveToCategory(*input.CategoryID); err != nil {
			return err
		}
	}
	if input.Rating != nil || input.Popularity != nil {
		rating, popularity := target.Rating, target.Popularity
		if input.Rating != nil {
			rating = *input.Rating
		}
		if input.Popularity != nil {
			popularity = *input.Popularity
		}
		if err := target.Rate(rating, popularity); err != nil {
			return err
		}
	}
	if input.IsNew != nil {
		target.IsNew = *input.IsNew
	}
	if input.Specifications != nil {
		target.ReplaceSpecifications(*input.Specifications)
	}
	if input.Images != nil {
		target.ReplaceImages(*input.Images)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
