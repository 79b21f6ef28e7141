package ports

import (
	"context"

	"github.com/demoserver/backend/internal/core/domain"
)

// CreateProductInput carries new product data. Category is validated by the service.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         float64
	Category      string
	InStock       *bool // nil = true
	StockQuantity int
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	InStock       *bool
	StockQuantity *int
}

// ProductService defines use-case operations for the product catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, page Page) ([]domain.Product, error)
	SearchProducts(ctx context.Context, query string, page Page) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in UpdateProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
