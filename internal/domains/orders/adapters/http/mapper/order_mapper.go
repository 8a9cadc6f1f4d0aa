package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// CreateOrder is the checkout body. Prices accept JSON numbers or strings.
type CreateOrder struct {
	Name    string            `json:"name"`
	Address string            `json:"address"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Items   []CreateOrderItem `json:"items"`
	Total   decimal.Decimal   `json:"total"`
}

type CreateOrderItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the transport shape returned to customers and admins.
type Order struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	UserID    *string     `json:"userId"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderPage is the admin listing response payload.
type OrderPage struct {
	Orders      []Order `json:"orders"`
	TotalOrders int64   `json:"totalOrders"`
	TotalPages  int     `json:"totalPages"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}

// UpdateStatus is the admin status change body.
type UpdateStatus struct {
	Status string `json:"status"`
}

// Restock is the admin restock body.
type Restock struct {
	Quantity int `json:"quantity"`
}

// ToPlaceOrderInput converts a checkout body into the application input.
func ToPlaceOrderInput(body CreateOrder, userID *string, idempotencyKey string) types.PlaceOrderInput {
	items := make([]types.ItemInput, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, types.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return types.PlaceOrderInput{
		Name:           body.Name,
		Address:        body.Address,
		Email:          body.Email,
		Phone:          body.Phone,
		Items:          items,
		Total:          body.Total,
		UserID:         userID,
		IdempotencyKey: idempotencyKey,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	return Order{
		ID:        order.ID,
		Name:      order.Customer.Name,
		Email:     order.Customer.Email,
		Phone:     order.Customer.Phone,
		Address:   order.Customer.Address,
		UserID:    order.UserID,
		Items:     items,
		Total:     order.Total.InexactFloat64(),
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// FromDomainOrders converts a slice of orders.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// FromOrderPage converts a listing page.
func FromOrderPage(page *types.OrderPage) OrderPage {
	if page == nil {
		return OrderPage{Orders: []Order{}}
	}
	return OrderPage{
		Orders:      FromDomainOrders(page.Orders),
		TotalOrders: page.TotalOrders,
		TotalPages:  page.TotalPages,
		Page:        page.Page,
		Limit:       page.Limit,
	}
}
