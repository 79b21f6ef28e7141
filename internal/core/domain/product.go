package domain

import (
	"strings"
	"time"
)

// Category is the fixed product category enumeration.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
)

var categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
	CategorySports,
}

// Categories returns the enumeration in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c belongs to the enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts s to a Category or returns a validation error.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		names := make([]string, len(categories))
		for i, known := range categories {
			names[i] = string(known)
		}
		return "", NewValidationError("category", "must be one of: "+strings.Join(names, " "))
	}
	return c, nil
}

// Product is an item in the catalog.
//
// InStock and StockQuantity are set independently; a product may report
// in_stock=true with stock_quantity=0.
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         float64    `json:"price"`
	Category      Category   `json:"category"`
	InStock       bool       `json:"in_stock"`
	StockQuantity int        `json:"stock_quantity"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// Validate checks field constraints shared by create and update.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if p.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	if p.StockQuantity < 0 {
		return NewValidationError("stock_quantity", "must not be negative")
	}
	if !p.Category.Valid() {
		_, err := ParseCategory(string(p.Category))
		return err
	}
	return nil
}
