package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	_ ports.ProductRepository  = (*ProductRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
)

// productRecord maps a product to the products table. The order ledger moves
// the stock column directly.
type productRecord struct {
	ID             string                 `gorm:"primaryKey;column:id;size:36"`
	Name           string                 `gorm:"column:name;size:255"`
	Description    string                 `gorm:"column:description;type:text"`
	Price          decimal.Decimal        `gorm:"column:price;type:numeric(12,2)"`
	OriginalPrice  *decimal.Decimal       `gorm:"column:original_price;type:numeric(12,2)"`
	CategoryID     string                 `gorm:"column:category_id;size:36;index"`
	Stock          int                    `gorm:"column:stock;default:0"`
	Rating         float64                `gorm:"column:rating;default:0"`
	Popularity     int                    `gorm:"column:popularity;default:0"`
	IsNew          bool                   `gorm:"column:is_new"`
	Specifications []domain.Specification `gorm:"column:specifications;serializer:json"`
	Images         pq.StringArray         `gorm:"column:images;type:text[]"`
	CreatedAt      time.Time              `gorm:"column:created_at;index"`
	UpdatedAt      time.Time              `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

var updatableColumns = []string{
	"name", "description", "price", "original_price", "category_id",
	"rating", "popularity", "is_new", "specifications", "images", "updated_at",
}

type categoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:36"`
	Name      string    `gorm:"column:name;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// ProductRepository persists products with GORM.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed product repository. Caller manages DB lifecycle.
// The schema comes from the migrations package.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toProductRecord(product)
	return r.db.WithContext(ctx).Create(&record).Error
}

// Update writes every column except stock.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toProductRecord(product)
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", record.ID).
		Select(updatableColumns).
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
		return ports.ErrProductInUse
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List filters by category and a case-insensitive name/description match.
func (r *ProductRepository) List(ctx context.Context, query ports.ProductQuery) ([]*domain.Product, int64, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Model(&productRecord{})
	if query.CategoryID != "" {
		base = base.Where("category_id = ?", query.CategoryID)
	}
	if search := strings.ToLower(query.Search); search != "" {
		like := "%" + search + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := base
	switch query.Sort {
	case ports.SortPriceAsc:
		page = page.Order("price ASC")
	case ports.SortPriceDesc:
		page = page.Order("price DESC")
	}
	page = page.Order("created_at DESC").Order("id DESC").Offset(max(query.Offset, 0))
	if query.Limit > 0 {
		page = page.Limit(query.Limit)
	}
	var records []productRecord
	if err := page.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&productRecord{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CategoryRepository persists categories with GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository wires a PostgreSQL-backed category repository.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	if category == nil {
		return errors.New("category is nil")
	}
	record := categoryRecord{ID: category.ID, Name: category.Name, CreatedAt: category.CreatedAt, UpdatedAt: category.UpdatedAt}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	if category == nil {
		return errors.New("category is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("id = ?", category.ID).
		UpdateColumns(map[string]any{"name": category.Name, "updated_at": category.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&categoryRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, records[i].toDomain())
	}
	return categories, nil
}

func ensureDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		OriginalPrice:  p.OriginalPrice,
		CategoryID:     p.CategoryID,
		Stock:          p.Stock,
		Rating:         p.Rating,
		Popularity:     p.Popularity,
		IsNew:          p.IsNew,
		Specifications: append([]domain.Specification{}, p.Specifications...),
		Images:         pq.StringArray(append([]string{}, p.Images...)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r productRecord) toDomain() *domain.Product {
	product := &domain.Product{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		CategoryID:     r.CategoryID,
		Stock:          r.Stock,
		Rating:         r.Rating,
		Popularity:     r.Popularity,
		IsNew:          r.IsNew,
		Specifications: append([]domain.Specification{}, r.Specifications...),
		Images:         append([]string{}, r.Images...),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	return product
}

func (r categoryRecord) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}
