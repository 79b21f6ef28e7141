package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// ProductService implements the catalog use cases.
type ProductService struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(products ports.ProductRepository, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, log: log}
}

func (s *ProductService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (domain.Product, error) {
	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.Product{}, err
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	p := domain.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Category:      category,
		InStock:       inStock,
		StockQuantity: in.StockQuantity,
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.Info().Int64("product_id", created.ID).Str("category", string(created.Category)).Msg("product created")
	return created, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, filter ports.ProductFilter, page ports.Page) ([]domain.Product, error) {
	return s.products.List(ctx, filter, page.Skip, page.Limit)
}

// SearchProducts matches query against name and description. A blank query
// is rejected rather than matching everything.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page ports.Page) ([]domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "is required")
	}
	return s.products.Search(ctx, query, page.Skip, page.Limit)
}

// UpdateProduct applies a partial update and re-validates the result before
// it is committed.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in ports.UpdateProductInput) (domain.Product, error) {
	var category domain.Category
	if in.Category != nil {
		c, err := domain.ParseCategory(*in.Category)
		if err != nil {
			return domain.Product{}, err
		}
		category = c
	}

	updated, err := s.products.Update(ctx, id, func(p *domain.Product) error {
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Category != nil {
			p.Category = category
		}
		if in.InStock != nil {
			p.InStock = *in.InStock
		}
		if in.StockQuantity != nil {
			p.StockQuantity = *in.StockQuantity
		}
		return p.Validate()
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info().Int64("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
