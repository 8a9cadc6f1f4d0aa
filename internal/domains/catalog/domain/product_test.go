package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewProductParams {
	return NewProductParams{
		ID:          "p1",
		Name:        "Trail Runner",
		Description: "Lightweight shoe for rocky trails.",
		Price:       decimal.RequireFromString("89.90"),
		CategoryID:  "shoes",
		Stock:       4,
		Rating:      4.5,
		Popularity:  12,
		IsNew:       true,
		Specifications: []Specification{
			{Label: "Weight", Value: "280g"},
		},
		Images:    []string{"https://cdn.example.com/p1.jpg"},
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewProduct_Valid(t *testing.T) {
	product, err := NewProduct(validParams())
	require.NoError(t, err)
	assert.Equal(t, "Trail Runner", product.Name)
	assert.Equal(t, 4, product.Stock)
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)
	assert.Nil(t, product.OriginalPrice)
}

func TestNewProduct_Invariants(t *testing.T) {
	negative := decimal.RequireFromString("-1")
	cases := []struct {
		name   string
		mutate func(*NewProductParams)
		want   error
	}{
		{"short name", func(p *NewProductParams) { p.Name = "x" }, ErrInvalidName},
		{"long name", func(p *NewProductParams) { p.Name = strings.Repeat("a", 256) }, ErrInvalidName},
		{"short description", func(p *NewProductParams) { p.Description = "tiny" }, ErrInvalidDescription},
		{"zero price", func(p *NewProductParams) { p.Price = decimal.Zero }, ErrInvalidPrice},
		{"negative original price", func(p *NewProductParams) { p.OriginalPrice = &negative }, ErrInvalidOriginalPrice},
		{"missing category", func(p *NewProductParams) { p.CategoryID = " " }, ErrMissingCategory},
		{"negative stock", func(p *NewProductParams) { p.Stock = -1 }, ErrInvalidStock},
		{"rating above five", func(p *NewProductParams) { p.Rating = 5.5 }, ErrInvalidRating},
		{"negative popularity", func(p *NewProductParams) { p.Popularity = -3 }, ErrInvalidPopularity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			_, err := NewProduct(params)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProduct_CloneIsDeep(t *testing.T) {
	original := decimal.RequireFromString("99.90")
	params := validParams()
	params.OriginalPrice = &original
	product, err := NewProduct(params)
	require.NoError(t, err)

	clone := product.Clone()
	clone.Images[0] = "changed"
	clone.Specifications[0].Value = "changed"
	*clone.OriginalPrice = decimal.Zero

	assert.Equal(t, "https://cdn.example.com/p1.jpg", product.Images[0])
	assert.Equal(t, "280g", product.Specifications[0].Value)
	assert.True(t, product.OriginalPrice.Equal(original))
}

func TestNewCategory(t *testing.T) {
	category, err := NewCategory("c1", "  Shoes ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Shoes", category.Name)

	_, err = NewCategory("c2", "a", time.Now())
	require.ErrorIs(t, err, ErrInvalidName)
}
