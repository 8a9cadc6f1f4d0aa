package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category groups products in the catalog.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory validates the name and builds a Category.
func NewCategory(id, name string, createdAt time.Time) (*Category, error) {
	c := &Category{ID: id, CreatedAt: createdAt, UpdatedAt: createdAt}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	c.Name = name
	return nil
}
