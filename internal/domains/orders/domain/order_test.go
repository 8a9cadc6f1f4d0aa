package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewOrderParams {
	return NewOrderParams{
		ID: "order-1",
		Customer: Customer{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Phone:   "+44 20 0000 0000",
			Address: "12 St James's Square, London",
		},
		Items: []Item{
			{ID: "item-1", ProductID: "prod-a", Quantity: 2, Price: decimal.RequireFromString("10.50")},
			{ID: "item-2", ProductID: "prod-b", Quantity: 1, Price: decimal.RequireFromString("4.00")},
		},
		Total:     decimal.RequireFromString("25.00"),
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewOrder_StartsPending(t *testing.T) {
	order, err := NewOrder(validParams())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, order.Total.Equal(order.ItemsTotal()))
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
	assert.Nil(t, order.UserID)
}

func TestNewOrder_TrailingZerosFitCurrency(t *testing.T) {
	params := validParams()
	params.Items[1].Price = decimal.RequireFromString("4.000")
	params.Total = decimal.RequireFromString("25.0000")
	_, err := NewOrder(params)
	require.NoError(t, err)
}

func TestNewOrder_BlankUserIDIsGuest(t *testing.T) {
	params := validParams()
	blank := "  "
	params.UserID = &blank
	order, err := NewOrder(params)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestNewOrder_Validation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*NewOrderParams)
		want   error
	}{
		"empty items": {
			mutate: func(p *NewOrderParams) { p.Items = nil },
			want:   ErrEmptyItems,
		},
		"zero quantity": {
			mutate: func(p *NewOrderParams) { p.Items[0].Quantity = 0 },
			want:   ErrInvalidQuantity,
		},
		"negative price": {
			mutate: func(p *NewOrderParams) {
				p.Items[1].Price = decimal.RequireFromString("-4.00")
				p.Total = decimal.RequireFromString("17.00")
			},
			want: ErrInvalidPrice,
		},
		"missing product": {
			mutate: func(p *NewOrderParams) { p.Items[0].ProductID = " " },
			want:   ErrMissingProductID,
		},
		"bad email": {
			mutate: func(p *NewOrderParams) { p.Customer.Email = "not-an-email" },
			want:   ErrInvalidEmail,
		},
		"missing name": {
			mutate: func(p *NewOrderParams) { p.Customer.Name = "" },
			want:   ErrMissingCustomer,
		},
		"missing phone": {
			mutate: func(p *NewOrderParams) { p.Customer.Phone = "" },
			want:   ErrMissingCustomer,
		},
		"sub-cent price": {
			mutate: func(p *NewOrderParams) {
				p.Items = []Item{{ID: "item-1", ProductID: "prod-a", Quantity: 2, Price: decimal.RequireFromString("0.005")}}
				p.Total = decimal.RequireFromString("0.01")
			},
			want: ErrInvalidAmount,
		},
		"sub-cent total": {
			mutate: func(p *NewOrderParams) { p.Total = decimal.RequireFromString("25.001") },
			want:   ErrInvalidAmount,
		},
		"total too large": {
			mutate: func(p *NewOrderParams) {
				p.Items = []Item{{ID: "item-1", ProductID: "prod-a", Quantity: 2, Price: decimal.RequireFromString("5000000000.00")}}
				p.Total = decimal.RequireFromString("10000000000.00")
			},
			want: ErrInvalidAmount,
		},
		"total mismatch": {
			mutate: func(p *NewOrderParams) { p.Total = decimal.RequireFromString("24.99") },
			want:   ErrTotalMismatch,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := NewOrder(params)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrder_DemandMergesRepeatedProducts(t *testing.T) {
	params := validParams()
	params.Items = append(params.Items, Item{ID: "item-3", ProductID: "prod-a", Quantity: 3, Price: decimal.RequireFromString("1.00")})
	params.Total = decimal.RequireFromString("28.00")
	order, err := NewOrder(params)
	require.NoError(t, err)

	assert.Equal(t, []ProductQuantity{
		{ProductID: "prod-a", Quantity: 5},
		{ProductID: "prod-b", Quantity: 1},
	}, order.Demand())
}

func TestOrder_CheckCancellableBy(t *testing.T) {
	owner := "user-1"
	params := validParams()
	params.UserID = &owner
	order, err := NewOrder(params)
	require.NoError(t, err)

	require.ErrorIs(t, order.CheckCancellableBy("user-2"), ErrNotOwner)
	require.NoError(t, order.CheckCancellableBy(owner))

	order.Status = StatusShipped
	require.ErrorIs(t, order.CheckCancellableBy(owner), ErrAlreadyFulfilled)
	order.Status = StatusDelivered
	require.ErrorIs(t, order.CheckCancellableBy(owner), ErrAlreadyFulfilled)
	order.Status = StatusCancelled
	require.ErrorIs(t, order.CheckCancellableBy(owner), ErrAlreadyCancelled)
}

func TestOrder_GuestOrderIsNeverOwned(t *testing.T) {
	order, err := NewOrder(validParams())
	require.NoError(t, err)
	require.ErrorIs(t, order.CheckCancellableBy("user-1"), ErrNotOwner)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, status)

	_, err = ParseStatus("RETURNED")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrder_CloneIsDeep(t *testing.T) {
	owner := "user-1"
	params := validParams()
	params.UserID = &owner
	order, err := NewOrder(params)
	require.NoError(t, err)

	clone := order.Clone()
	clone.Items[0].Quantity = 99
	*clone.UserID = "someone-else"

	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "user-1", *order.UserID)
}
