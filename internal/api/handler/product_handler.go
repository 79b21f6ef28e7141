package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/demoserver/backend/internal/api/metrics"
	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// ProductHandler exposes the product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/v1/products?skip&limit&category&in_stock.
func (h *ProductHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}

	var filter ports.ProductFilter
	if raw := c.QueryParam("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return err
		}
		filter.Category = &category
	}
	if raw := c.QueryParam("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.NewValidationError("in_stock", "must be a boolean")
		}
		filter.InStock = &inStock
	}

	products, err := h.service.ListProducts(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Search handles GET /api/v1/products/search?q=.
func (h *ProductHandler) Search(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	products, err := h.service.SearchProducts(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		Category:      req.Category,
		InStock:       req.InStock,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return err
	}
	metrics.ProductsCreatedTotal.WithLabelValues(string(product.Category)).Inc()

	return c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/v1/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.Request().Context(), id, ports.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		InStock:       req.InStock,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully", Success: true})
}
