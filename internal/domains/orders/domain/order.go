package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

var (
	ErrEmptyItems       = errors.New("order must contain at least one item")
	ErrMissingProductID = errors.New("item product id is required")
	ErrInvalidQuantity  = errors.New("item quantity must be greater than zero")
	ErrInvalidPrice     = errors.New("item price must not be negative")
	ErrInvalidAmount    = errors.New("amount must have at most two decimals and stay below 10,000,000,000")
	ErrInvalidEmail     = errors.New("customer email is invalid")
	ErrMissingCustomer  = errors.New("customer field is required")
	ErrTotalMismatch    = errors.New("order total does not match item subtotals")
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrNotOwner         = errors.New("order belongs to another user")
	ErrAlreadyFulfilled = errors.New("cannot cancel shipped or delivered order")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
)

// ParseStatus normalizes raw input into a known Status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Valid reports whether the status is one of the four known values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Fulfilled reports whether the order has left the warehouse.
func (s Status) Fulfilled() bool {
	return s == StatusShipped || s == StatusDelivered
}

// Customer holds the contact details captured at checkout.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Item is an immutable order line with the unit price captured at checkout.
type Item struct {
	ID        string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal returns price * quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order models the storefront purchase order aggregate.
type Order struct {
	ID        string
	Customer  Customer
	UserID    *string
	Items     []Item
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderParams carries everything needed to open a new order.
type NewOrderParams struct {
	ID        string
	Customer  Customer
	UserID    *string
	Items     []Item
	Total     decimal.Decimal
	CreatedAt time.Time
}

// NewOrder validates the checkout payload and builds a PENDING order.
func NewOrder(params NewOrderParams) (*Order, error) {
	order := &Order{
		ID:        params.ID,
		Customer:  normalizeCustomer(params.Customer),
		UserID:    normalizeUserID(params.UserID),
		Items:     append([]Item(nil), params.Items...),
		Total:     params.Total,
		Status:    StatusPending,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	for i := range order.Items {
		order.Items[i].ProductID = strings.TrimSpace(order.Items[i].ProductID)
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// maxAmount is the first value a numeric(12,2) column cannot store.
var maxAmount = decimal.New(1, 10)

func fitsCurrency(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2)) && amount.Abs().LessThan(maxAmount)
}

// Validate enforces the checkout invariants on the aggregate.
func (o *Order) Validate() error {
	if err := o.Customer.validate(); err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range o.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: items[%d]", ErrMissingProductID, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d]", ErrInvalidQuantity, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: items[%d]", ErrInvalidPrice, i)
		}
		if !fitsCurrency(item.Price) {
			return fmt.Errorf("%w: items[%d] price %s", ErrInvalidAmount, i, item.Price.String())
		}
	}
	if !fitsCurrency(o.Total) {
		return fmt.Errorf("%w: total %s", ErrInvalidAmount, o.Total.String())
	}
	if sum := o.ItemsTotal(); !sum.Equal(o.Total) {
		return fmt.Errorf("%w: total %s, items %s", ErrTotalMismatch, o.Total.String(), sum.String())
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ItemsTotal sums the item subtotals.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// Demand sums item quantities per product, sorted by product id so callers
// lock rows in a stable order.
func (o *Order) Demand() []ProductQuantity {
	totals := map[string]int{}
	for _, item := range o.Items {
		totals[item.ProductID] += item.Quantity
	}
	demand := make([]ProductQuantity, 0, len(totals))
	for productID, qty := range totals {
		demand = append(demand, ProductQuantity{ProductID: productID, Quantity: qty})
	}
	sort.Slice(demand, func(i, j int) bool { return demand[i].ProductID < demand[j].ProductID })
	return demand
}

// OwnedBy reports whether the order is attributed to the given user.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != nil && *o.UserID == userID
}

// CheckCancellableBy applies the customer cancellation rules in order.
func (o *Order) CheckCancellableBy(userID string) error {
	if !o.OwnedBy(userID) {
		return ErrNotOwner
	}
	if o.Status.Fulfilled() {
		return ErrAlreadyFulfilled
	}
	if o.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	return nil
}

// TransitionTo records a new status. Stock consequences are computed separately via StockDeltas.
func (o *Order) TransitionTo(status Status, at time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy safe to hand across adapter boundaries.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	if o.UserID != nil {
		userID := *o.UserID
		clone.UserID = &userID
	}
	return &clone
}

func (c Customer) validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name", ErrMissingCustomer)
	case c.Address == "":
		return fmt.Errorf("%w: address", ErrMissingCustomer)
	case c.Phone == "":
		return fmt.Errorf("%w: phone", ErrMissingCustomer)
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, c.Email)
	}
	return nil
}

func normalizeCustomer(c Customer) Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

func normalizeUserID(userID *string) *string {
	if userID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*userID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
