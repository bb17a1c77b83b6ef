package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// LowStockThreshold is the stock level at or below which an in-stock product
// is flagged as running low.
const LowStockThreshold = 10

// Product is a sellable catalog item.
// Prices are absolute currency amounts; Stock is a unit count.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Barcode       string          `json:"barcode"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsOutOfStock reports whether the product has no units left.
func (p Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// IsLowStock reports whether the product is in stock but at or below
// LowStockThreshold.
func (p Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}

// Margin returns the difference between sale and purchase price.
func (p Product) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.PurchasePrice)
}

// =============================================================================
// PRODUCT REPOSITORY
// =============================================================================

// ProductRepository is the catalog provider.
// Implementations return copies; callers never share memory with the store.
type ProductRepository interface {
	// ListProducts returns every product in insertion order.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns ErrProductNotFound when id is unknown.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// CreateProduct assigns ID and CreatedAt when they are empty.
	CreateProduct(ctx context.Context, p *Product) error

	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = &Error{
	Code:    ENOTFOUND,
	Message: "Product not found",
}
