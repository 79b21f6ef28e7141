package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// DefaultUsers are the demo accounts created at startup.
func DefaultUsers() []ports.CreateUserInput {
	return []ports.CreateUserInput{
		{
			Username: "admin",
			Email:    "admin@example.com",
			FullName: "Administrator",
			Password: "admin123",
			Role:     domain.RoleAdmin,
		},
		{
			Username: "john_doe",
			Email:    "john@example.com",
			FullName: "John Doe",
			Password: "user123",
			Role:     domain.RoleUser,
		},
	}
}

// DefaultProducts is the demo catalog created at startup.
func DefaultProducts() []ports.CreateProductInput {
	return []ports.CreateProductInput{
		{
			Name:          "MacBook Pro",
			Description:   "Apple MacBook Pro 16-inch with M2 chip",
			Price:         2499.99,
			Category:      string(domain.CategoryElectronics),
			StockQuantity: 10,
		},
		{
			Name:          "Nike Air Max",
			Description:   "Comfortable running shoes",
			Price:         120.00,
			Category:      string(domain.CategorySports),
			StockQuantity: 25,
		},
		{
			Name:          "Python Programming Book",
			Description:   "Learn Python programming from scratch",
			Price:         29.99,
			Category:      string(domain.CategoryBooks),
			StockQuantity: 50,
		},
	}
}

// Seed populates an empty directory and catalog. Users that already exist are
// skipped so a restart against shared state does not fail.
func Seed(ctx context.Context, users ports.UserService, products ports.ProductService, seedUsers []ports.CreateUserInput, seedProducts []ports.CreateProductInput) error {
	for _, u := range seedUsers {
		if _, err := users.CreateUser(ctx, u); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	for _, p := range seedProducts {
		if _, err := products.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}
