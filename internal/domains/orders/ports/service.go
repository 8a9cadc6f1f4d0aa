package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// Service exposes the order lifecycle to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string, requesterID string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrders(ctx context.Context, input types.ListOrdersInput) (*types.OrderPage, error)
	ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	Restock(ctx context.Context, productID string, quantity int) error
}
