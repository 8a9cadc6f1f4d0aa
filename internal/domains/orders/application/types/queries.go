package types

import "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListOrdersInput drives the administrative order listing.
type ListOrdersInput struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// Normalize applies paging defaults and bounds.
func (in ListOrdersInput) Normalize() ListOrdersInput {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit > MaxPageLimit {
		in.Limit = MaxPageLimit
	}
	return in
}

// OrderPage is one page of orders plus counts for the whole filter.
type OrderPage struct {
	Orders      []*domain.Order
	TotalOrders int64
	TotalPages  int
	Page        int
	Limit       int
}
