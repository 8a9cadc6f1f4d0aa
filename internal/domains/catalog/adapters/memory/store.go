package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	_ ports.ProductRepository  = ProductRepository{}
	_ ports.CategoryRepository = CategoryRepository{}
)

// Store keeps products and categories in memory. It also exposes per-product
// stock so the in-memory order ledger can reserve against the same rows.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*domain.Product
	categories map[string]*domain.Category
}

// NewStore builds an empty catalog.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*domain.Product),
		categories: make(map[string]*domain.Category),
	}
}

// Products and categories share this adapter; these views keep the repository
// method sets apart.
func (s *Store) Products() ProductRepository { return ProductRepository{s} }

func (s *Store) Categories() CategoryRepository { return CategoryRepository{s} }

// Stock reports the on-hand quantity of a product.
func (s *Store) Stock(productID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[productID]
	if !ok {
		return 0, false
	}
	return product.Stock, true
}

// SetStock overwrites the on-hand quantity; false when the product is unknown.
func (s *Store) SetStock(productID string, stock int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return false
	}
	product.Stock = stock
	return true
}

// ProductRepository is the product view of Store.
type ProductRepository struct{ s *Store }

func (r ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.products[product.ID]; exists {
		return errors.New("product already exists")
	}
	r.s.products[product.ID] = product.Clone()
	return nil
}

// Update replaces every attribute except stock.
func (r ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[product.ID]
	if !ok {
		return ports.ErrNotFound
	}
	updated := product.Clone()
	updated.Stock = existing.Stock
	r.s.products[product.ID] = updated
	return nil
}

func (r ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	product, ok := r.s.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r ProductRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r ProductRepository) List(ctx context.Context, query ports.ProductQuery) ([]*domain.Product, int64, error) {
	r.s.mu.RLock()
	matched := make([]*domain.Product, 0, len(r.s.products))
	search := strings.ToLower(query.Search)
	for _, product := range r.s.products {
		if query.CategoryID != "" && product.CategoryID != query.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(product.Name), search) &&
			!strings.Contains(strings.ToLower(product.Description), search) {
			continue
		}
		matched = append(matched, product.Clone())
	}
	r.s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch query.Sort {
		case ports.SortPriceAsc:
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
		case ports.SortPriceDesc:
			if !a.Price.Equal(b.Price) {
				return a.Price.GreaterThan(b.Price)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	start := min(max(query.Offset, 0), len(matched))
	end := len(matched)
	if query.Limit > 0 {
		end = min(start+query.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func (r ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, product := range r.s.products {
		if product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// CategoryRepository is the category view of Store.
type CategoryRepository struct{ s *Store }

func (r CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copy := *category
	r.s.categories[category.ID] = &copy
	return nil
}

func (r CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return ports.ErrCategoryNotFound
	}
	copy := *category
	r.s.categories[category.ID] = &copy
	return nil
}

func (r CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	category, ok := r.s.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	copy := *category
	return &copy, nil
}

func (r CategoryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// List returns categories ordered by name.
func (r CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	categories := make([]*domain.Category, 0, len(r.s.categories))
	for _, category := range r.s.categories {
		copy := *category
		categories = append(categories, &copy)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}
