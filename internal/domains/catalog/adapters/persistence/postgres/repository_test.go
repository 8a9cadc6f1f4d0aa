package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&productRecord{}, &categoryRecord{}))
	return db
}

func newProduct(t *testing.T, id, categoryID, name, price string, createdAt time.Time) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(domain.NewProductParams{
		ID:          id,
		Name:        name,
		Description: "Catalog adapter test product.",
		Price:       decimal.RequireFromString(price),
		CategoryID:  categoryID,
		Stock:       5,
		Rating:      3.5,
		IsNew:       true,
		Specifications: []domain.Specification{
			{Label: "Color", Value: "Blue"},
		},
		Images:    []string{"https://cdn.example.com/" + id + ".jpg"},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return product
}

func TestProductRepository_RoundTrip(t *testing.T) {
	db := openSQLite(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	original := decimal.RequireFromString("19.99")
	product := newProduct(t, "p1", "c1", "Blue Mug", "14.50", created)
	product.OriginalPrice = &original

	require.NoError(t, repo.Create(ctx, product))

	fetched, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Mug", fetched.Name)
	assert.True(t, product.Price.Equal(fetched.Price))
	require.NotNil(t, fetched.OriginalPrice)
	assert.True(t, original.Equal(*fetched.OriginalPrice))
	assert.Equal(t, []domain.Specification{{Label: "Color", Value: "Blue"}}, fetched.Specifications)
	assert.Equal(t, []string{"https://cdn.example.com/p1.jpg"}, fetched.Images)
	assert.Equal(t, 5, fetched.Stock)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestProductRepository_UpdateKeepsStock(t *testing.T) {
	db := openSQLite(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	product := newProduct(t, "p1", "c1", "Blue Mug", "14.50", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, db.Table("products").Where("id = ?", "p1").UpdateColumn("stock", 2).Error)

	product.Stock = 99
	require.NoError(t, product.Rename("Red Mug"))
	product.ReplaceImages(nil)
	require.NoError(t, repo.Update(ctx, product))

	fetched, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Red Mug", fetched.Name)
	assert.Equal(t, 2, fetched.Stock)
	assert.Empty(t, fetched.Images)

	missing := newProduct(t, "p9", "c1", "Ghost Mug", "1.00", time.Now().UTC())
	require.ErrorIs(t, repo.Update(ctx, missing), ports.ErrNotFound)
}

func TestProductRepository_ListAndCount(t *testing.T) {
	db := openSQLite(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newProduct(t, "p1", "kitchen", "Blue Mug", "14.50", start)))
	require.NoError(t, repo.Create(ctx, newProduct(t, "p2", "kitchen", "Teapot", "32.00", start.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newProduct(t, "p3", "garden", "Watering Can", "21.00", start.Add(2*time.Hour))))

	all, total, err := repo.List(ctx, ports.ProductQuery{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "p3", all[0].ID)

	kitchen, total, err := repo.List(ctx, ports.ProductQuery{CategoryID: "kitchen", Sort: ports.SortPriceDesc, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, kitchen, 1)
	assert.Equal(t, "p2", kitchen[0].ID)

	found, total, err := repo.List(ctx, ports.ProductQuery{Search: "MUG", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "p1", found[0].ID)

	count, err := repo.CountByCategory(ctx, "kitchen")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, repo.Delete(ctx, "p1"))
	require.ErrorIs(t, repo.Delete(ctx, "p1"), ports.ErrNotFound)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	db := openSQLite(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	for _, c := range []*domain.Category{
		{ID: "c1", Name: "Kitchen", CreatedAt: now, UpdatedAt: now},
		{ID: "c2", Name: "Garden", CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Garden", list[0].Name)

	require.NoError(t, repo.Update(ctx, &domain.Category{ID: "c1", Name: "Kitchenware", UpdatedAt: now.Add(time.Hour)}))
	fetched, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Kitchenware", fetched.Name)

	require.ErrorIs(t, repo.Update(ctx, &domain.Category{ID: "c9", Name: "Nope"}), ports.ErrCategoryNotFound)
	require.NoError(t, repo.Delete(ctx, "c2"))
	_, err = repo.GetByID(ctx, "c2")
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}
