package memory

import (
	"context"
	"time"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// ProductRepository is the in-memory product catalog.
type ProductRepository struct {
	store *Store[domain.Product]
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository builds an empty product catalog.
func NewProductRepository(opts Options) *ProductRepository {
	schema := Schema[domain.Product]{
		SetID: func(p *domain.Product, id int64) { p.ID = id },
		Stamp: stampProduct,
		Clone: cloneProduct,
		Searchable: func(p domain.Product) []string {
			return []string{p.Name, p.Description}
		},
		NotFound: domain.ErrProductNotFound,
	}
	return &ProductRepository{store: NewStore(schema, opts)}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	return r.store.Create(product)
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	return r.store.Get(id)
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter, skip, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.List(filter.Matches, skip, limit), nil
}

func (r *ProductRepository) Search(ctx context.Context, query string, skip, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Search(query, nil, skip, limit), nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, mutate func(*domain.Product) error) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	return r.store.Update(id, mutate)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.store.Delete(id) {
		return domain.ErrProductNotFound
	}
	return nil
}

// Len returns the number of products.
func (r *ProductRepository) Len() int {
	return r.store.Len()
}

func stampProduct(p *domain.Product, now time.Time, created bool) {
	if created {
		p.CreatedAt = now
		p.UpdatedAt = nil
		return
	}
	p.UpdatedAt = &now
}

func cloneProduct(p domain.Product) domain.Product {
	if p.UpdatedAt != nil {
		ts := *p.UpdatedAt
		p.UpdatedAt = &ts
	}
	return p
}
