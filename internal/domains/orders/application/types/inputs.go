package types

import "github.com/shopspring/decimal"

// PlaceOrderInput is the checkout payload.
type PlaceOrderInput struct {
	Name           string
	Address        string
	Email          string
	Phone          string
	Items          []ItemInput
	Total          decimal.Decimal
	UserID         *string
	IdempotencyKey string
}

// ItemInput is one cart line as submitted by the client.
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}
