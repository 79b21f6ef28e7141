package ports

import (
	"context"

	"github.com/demoserver/backend/internal/core/domain"
)

// ProductFilter narrows product listings. Nil fields do not filter.
type ProductFilter struct {
	Category *domain.Category
	InStock  *bool
}

// Matches reports whether p satisfies every set field of f.
func (f ProductFilter) Matches(p domain.Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// ProductRepository defines persistence operations for the product catalog.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter, skip, limit int) ([]domain.Product, error)
	// Search matches query against name and description, case-insensitively.
	Search(ctx context.Context, query string, skip, limit int) ([]domain.Product, error)
	Update(ctx context.Context, id int64, mutate func(*domain.Product) error) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
