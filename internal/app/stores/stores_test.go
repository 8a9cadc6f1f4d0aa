package stores

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	orderstypes "github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

func TestOpenWithoutBackendsUsesMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, cleanup := Open(context.Background(), Settings{}, logger)
	defer cleanup()

	assert.Nil(t, s.DB)
	assert.Nil(t, s.Redis)
	assert.Nil(t, s.Idempotency)
	require.NotNil(t, s.Products)
	require.NotNil(t, s.Orders)
	require.NotNil(t, s.Users)
	require.NotNil(t, s.Sessions)
}

func seedLamp(t *testing.T, s *Stores, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(catalogdomain.NewProductParams{
		ID:          "p-1",
		Name:        "Desk Lamp",
		Description: "Adjustable desk lamp with a warm LED.",
		Price:       decimal.NewFromInt(25),
		CategoryID:  "c-1",
		Stock:       stock,
	})
	require.NoError(t, err)
	require.NoError(t, s.Products.Create(context.Background(), product))
}

func TestInMemoryOrdersShareCatalogStock(t *testing.T) {
	ctx := context.Background()
	s := InMemory()
	seedLamp(t, s, 3)

	err := s.Orders.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		return tx.AdjustStock(ctx, "p-1", -2)
	})
	require.NoError(t, err)

	stored, err := s.Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Stock)
}

func TestInMemoryCheckoutDrainsCatalogStock(t *testing.T) {
	ctx := context.Background()
	s := InMemory()
	seedLamp(t, s, 3)
	orders := ordersapp.NewService(s.Orders)
	catalog := catalogapp.NewService(s.Products, s.Categories, catalogapp.WithProductReferences(s.Orders))

	price := decimal.NewFromInt(25)
	order, err := orders.PlaceOrder(ctx, orderstypes.PlaceOrderInput{
		Name:    "Ada Lovelace",
		Address: "12 St James's Square, London",
		Email:   "ada@example.com",
		Phone:   "555-0110",
		Items:   []orderstypes.ItemInput{{ProductID: "p-1", Quantity: 2, Price: price}},
		Total:   price.Mul(decimal.NewFromInt(2)),
	})
	require.NoError(t, err)

	product, err := catalog.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)

	require.ErrorIs(t, catalog.DeleteProduct(ctx, "p-1"), catalogapp.ErrProductInUse)

	_, err = orders.UpdateOrderStatus(ctx, order.ID, "CANCELLED")
	require.NoError(t, err)
	product, err = catalog.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}
