package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// CreateProductInput carries a new product. Stock is the opening balance.
type CreateProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	CategoryID     string
	Stock          int
	Rating         float64
	Popularity     int
	IsNew          *bool
	Specifications []domain.Specification
	Images         []string
}

// UpdateProductInput is a partial update; nil fields are left untouched.
// Stock is not part of it: restock goes through the order service.
type UpdateProductInput struct {
	ID             string
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	OriginalPrice  *decimal.Decimal
	CategoryID     *string
	Rating         *float64
	Popularity     *int
	IsNew          *bool
	Specifications *[]domain.Specification
	Images         *[]string
}
