package types

import "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"

const DefaultPageSize = 20

// ListProductsInput filters the public product listing.
type ListProductsInput struct {
	CategoryID string
	Search     string
	SortBy     string
	PageSize   int
	PageNumber int
}

// Normalize applies paging defaults.
func (in ListProductsInput) Normalize() ListProductsInput {
	if in.PageSize < 1 {
		in.PageSize = DefaultPageSize
	}
	if in.PageNumber < 1 {
		in.PageNumber = 1
	}
	return in
}

// ProductPage is one page of products plus counts for the whole filter.
type ProductPage struct {
	Products   []*domain.Product
	TotalCount int64
	PageCount  int
	PageNumber int
	PageSize   int
}
