package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/telemetry"
	"github.com/shopspring/decimal"
)

// ProductService provides business logic for the product catalog
type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// FindByCode resolves a scanned or typed code against product code or barcode.
	FindByCode(ctx context.Context, code string) (*domain.Product, error)

	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]string, error)
	StockStats(ctx context.Context) (*StockStats, error)
}

// ProductFilter narrows a product listing.
// Search matches name or code case-insensitively, or barcode by substring.
// An empty Category or "all" matches every category.
type ProductFilter struct {
	Search   string
	Category string
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p domain.Product) bool {
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}

	q := strings.TrimSpace(f.Search)
	if q == "" {
		return true
	}
	lower := strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), lower) ||
		strings.Contains(strings.ToLower(p.Code), lower) ||
		strings.Contains(p.Barcode, q)
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=120"`
	Code          string          `json:"code" validate:"required,max=40"`
	Barcode       string          `json:"barcode" validate:"max=64"`
	Category      string          `json:"category" validate:"required,max=60"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	Stock         int             `json:"stock" validate:"gte=0"`
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.Category = strings.TrimSpace(in.Category)
}

// StockStats summarizes catalog stock levels.
type StockStats struct {
	Total      int `json:"total"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type productService struct {
	repo    domain.ProductRepository
	metrics *telemetry.BusinessMetrics
}

// NewProductService creates a new ProductService instance
func NewProductService(repo domain.ProductRepository, metrics *telemetry.BusinessMetrics) ProductService {
	return &productService{
		repo:    repo,
		metrics: metrics,
	}
}

// ListProducts returns the products that pass filter, in catalog order
func (s *productService) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *productService) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrProductNotFound
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	for i := range products {
		if products[i].Barcode == code || strings.EqualFold(products[i].Code, code) {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	input.normalize()
	if err := validateStruct("product.create", input); err != nil {
		return nil, err
	}

	p := &domain.Product{
		Name:          input.Name,
		Code:          input.Code,
		Barcode:       input.Barcode,
		Category:      input.Category,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		Stock:         input.Stock,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields; id and creation time are kept
func (s *productService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	input.normalize()
	if err := validateStruct("product.update", input); err != nil {
		return nil, err
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Code = input.Code
	p.Barcode = input.Barcode
	p.Category = input.Category
	p.PurchasePrice = input.PurchasePrice
	p.SalePrice = input.SalePrice
	p.Stock = input.Stock

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

// Categories returns the distinct categories in alphabetical order
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	seen := make(map[string]bool)
	var categories []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *productService) StockStats(ctx context.Context) (*StockStats, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	stats := &StockStats{Total: len(products)}
	for _, p := range products {
		switch {
		case p.IsOutOfStock():
			stats.OutOfStock++
		case p.IsLowStock():
			stats.LowStock++
		}
	}
	s.metrics.SetOutOfStock(stats.OutOfStock)
	return stats, nil
}
