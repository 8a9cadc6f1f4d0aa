package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Event is a fact about an order published after its transaction commits.
type Event interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// OrderPlaced is emitted once per successfully created order.
type OrderPlaced struct {
	OrderID string          `json:"order_id"`
	UserID  *string         `json:"user_id,omitempty"`
	Items   []PlacedItem    `json:"items"`
	Total   decimal.Decimal `json:"total"`
	At      time.Time       `json:"occurred_at"`
}

// PlacedItem mirrors an order line inside OrderPlaced.
type PlacedItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// NewOrderPlaced snapshots an order for publication.
func NewOrderPlaced(o *Order) OrderPlaced {
	items := make([]PlacedItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, PlacedItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price})
	}
	return OrderPlaced{OrderID: o.ID, UserID: o.UserID, Items: items, Total: o.Total, At: o.CreatedAt}
}

func (e OrderPlaced) EventType() string     { return EventOrderPlaced }
func (e OrderPlaced) AggregateID() string   { return e.OrderID }
func (e OrderPlaced) OccurredAt() time.Time { return e.At }

// OrderStatusChanged is emitted after a committed status transition.
type OrderStatusChanged struct {
	OrderID string       `json:"order_id"`
	From    Status       `json:"from"`
	To      Status       `json:"to"`
	Deltas  []StockDelta `json:"stock_deltas,omitempty"`
	At      time.Time    `json:"occurred_at"`
}

func (e OrderStatusChanged) EventType() string     { return EventOrderStatusChanged }
func (e OrderStatusChanged) AggregateID() string   { return e.OrderID }
func (e OrderStatusChanged) OccurredAt() time.Time { return e.At }
