package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinNameLength        = 2
	MaxNameLength        = 255
	MinDescriptionLength = 10
	MaxDescriptionLength = 2000
	MaxRating            = 5
)

var (
	ErrInvalidName          = errors.New("name must be between 2 and 255 characters")
	ErrInvalidDescription   = errors.New("description must be between 10 and 2000 characters")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidOriginalPrice = errors.New("original price must be positive")
	ErrMissingCategory      = errors.New("category is required")
	ErrInvalidStock         = errors.New("stock cannot be negative")
	ErrInvalidRating        = errors.New("rating must be between 0 and 5")
	ErrInvalidPopularity    = errors.New("popularity cannot be negative")
)

// Specification is one label/value line shown on the product page.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a catalog entry. Stock is set once at creation; afterwards only
// the inventory ledger moves it.
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	CategoryID     string
	Stock          int
	Rating         float64
	Popularity     int
	IsNew          bool
	Specifications []Specification
	Images         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProductParams carries the creation attributes.
type NewProductParams struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal
	OriginalPrice  *decimal.Decimal
	CategoryID     string
	Stock          int
	Rating         float64
	Popularity     int
	IsNew          bool
	Specifications []Specification
	Images         []string
	CreatedAt      time.Time
}

// NewProduct validates the invariants and builds a new Product.
func NewProduct(p NewProductParams) (*Product, error) {
	if p.Stock < 0 {
		return nil, ErrInvalidStock
	}
	product := &Product{
		ID:        p.ID,
		Stock:     p.Stock,
		IsNew:     p.IsNew,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.CreatedAt,
	}
	if err := product.Rename(p.Name); err != nil {
		return nil, err
	}
	if err := product.Describe(p.Description); err != nil {
		return nil, err
	}
	if err := product.Reprice(p.Price, p.OriginalPrice); err != nil {
		return nil, err
	}
	if err := product.MoveToCategory(p.CategoryID); err != nil {
		return nil, err
	}
	if err := product.Rate(p.Rating, p.Popularity); err != nil {
		return nil, err
	}
	product.ReplaceSpecifications(p.Specifications)
	product.ReplaceImages(p.Images)
	return product, nil
}

func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	p.Name = name
	return nil
}

func (p *Product) Describe(description string) error {
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < MinDescriptionLength || n > MaxDescriptionLength {
		return ErrInvalidDescription
	}
	p.Description = description
	return nil
}

// Reprice sets the selling price and the optional struck-through original price.
func (p *Product) Reprice(price decimal.Decimal, original *decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if original != nil && !original.IsPositive() {
		return ErrInvalidOriginalPrice
	}
	p.Price = price
	if original == nil {
		p.OriginalPrice = nil
	} else {
		copy := *original
		p.OriginalPrice = &copy
	}
	return nil
}

func (p *Product) MoveToCategory(categoryID string) error {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return ErrMissingCategory
	}
	p.CategoryID = categoryID
	return nil
}

// Rate updates the rating and popularity counters.
func (p *Product) Rate(rating float64, popularity int) error {
	if rating < 0 || rating > MaxRating {
		return ErrInvalidRating
	}
	if popularity < 0 {
		return ErrInvalidPopularity
	}
	p.Rating = rating
	p.Popularity = popularity
	return nil
}

func (p *Product) ReplaceSpecifications(specs []Specification) {
	p.Specifications = append([]Specification{}, specs...)
}

func (p *Product) ReplaceImages(urls []string) {
	p.Images = append([]string{}, urls...)
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	copy := *p
	if p.OriginalPrice != nil {
		original := *p.OriginalPrice
		copy.OriginalPrice = &original
	}
	copy.Specifications = append([]Specification{}, p.Specifications...)
	copy.Images = append([]string{}, p.Images...)
	return &copy
}
