package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Specification is one label/value line of a product.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is the HTTP representation of a catalog product.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	OriginalPrice  *float64        `json:"originalPrice"`
	CategoryID     string          `json:"categoryId"`
	Stock          int             `json:"stock"`
	Rating         float64         `json:"rating"`
	Popularity     int             `json:"popularity"`
	IsNew          bool            `json:"isNew"`
	Specifications []Specification `json:"specifications"`
	Images         []string        `json:"images"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CreateProduct is the admin creation body.
type CreateProduct struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice,omitempty"`
	CategoryID     string           `json:"categoryId"`
	Stock          int              `json:"stock"`
	Rating         float64          `json:"rating"`
	Popularity     int              `json:"popularity"`
	IsNew          *bool            `json:"isNew,omitempty"`
	Specifications []Specification  `json:"specifications,omitempty"`
	Images         []string         `json:"images,omitempty"`
}

// UpdateProduct preserves field presence so absent fields stay untouched.
type UpdateProduct struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice,omitempty"`
	CategoryID     *string          `json:"categoryId,omitempty"`
	Rating         *float64         `json:"rating,omitempty"`
	Popularity     *int             `json:"popularity,omitempty"`
	IsNew          *bool            `json:"isNew,omitempty"`
	Specifications *[]Specification `json:"specifications,omitempty"`
	Images         *[]string        `json:"images,omitempty"`
}

// ProductPage is the listing response payload.
type ProductPage struct {
	Products   []Product `json:"products"`
	TotalCount int64     `json:"totalCount"`
	PageCount  int       `json:"pageCount"`
	PageNumber int       `json:"pageNumber"`
	PageSize   int       `json:"pageSize"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryBody is the create/update body for categories.
type CategoryBody struct {
	Name string `json:"name"`
}

func ToCreateProductInput(body CreateProduct) types.CreateProductInput {
	return types.CreateProductInput{
		Name:           body.Name,
		Description:    body.Description,
		Price:          body.Price,
		OriginalPrice:  body.OriginalPrice,
		CategoryID:     body.CategoryID,
		Stock:          body.Stock,
		Rating:         body.Rating,
		Popularity:     body.Popularity,
		IsNew:          body.IsNew,
		Specifications: toDomainSpecs(body.Specifications),
		Images:         body.Images,
	}
}

func ToUpdateProductInput(id string, body UpdateProduct) types.UpdateProductInput {
	input := types.UpdateProductInput{
		ID:            id,
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		OriginalPrice: body.OriginalPrice,
		CategoryID:    body.CategoryID,
		Rating:        body.Rating,
		Popularity:    body.Popularity,
		IsNew:         body.IsNew,
		Images:        body.Images,
	}
	if body.Specifications != nil {
		specs := toDomainSpecs(*body.Specifications)
		input.Specifications = &specs
	}
	return input
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	var original *float64
	if p.OriginalPrice != nil {
		v := p.OriginalPrice.InexactFloat64()
		original = &v
	}
	specs := make([]Specification, 0, len(p.Specifications))
	for _, s := range p.Specifications {
		specs = append(specs, Specification{Label: s.Label, Value: s.Value})
	}
	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		OriginalPrice:  original,
		CategoryID:     p.CategoryID,
		Stock:          p.Stock,
		Rating:         p.Rating,
		Popularity:     p.Popularity,
		IsNew:          p.IsNew,
		Specifications: specs,
		Images:         append([]string{}, p.Images...),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromProductPage(page *types.ProductPage) ProductPage {
	if page == nil {
		return ProductPage{Products: []Product{}}
	}
	products := make([]Product, 0, len(page.Products))
	for _, p := range page.Products {
		products = append(products, FromDomainProduct(p))
	}
	return ProductPage{
		Products:   products,
		TotalCount: page.TotalCount,
		PageCount:  page.PageCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}

func FromDomainCategory(c *domain.Category) Category {
	if c == nil {
		return Category{}
	}
	return Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromDomainCategories(categories []*domain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, c := range categories {
		result = append(result, FromDomainCategory(c))
	}
	return result
}

func toDomainSpecs(specs []Specification) []domain.Specification {
	result := make([]domain.Specification, 0, len(specs))
	for _, s := range specs {
		result = append(result, domain.Specification{Label: s.Label, Value: s.Value})
	}
	return result
}
