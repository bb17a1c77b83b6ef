package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SALE DOMAIN TYPES
// =============================================================================

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCredit PaymentMethod = "credit"
	PaymentPix    PaymentMethod = "pix"
)

// PaymentMethods lists the accepted methods in checkout order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentDebit, PaymentCredit, PaymentPix}
}

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentPix:
		return true
	}
	return false
}

// Label returns the display name printed on screens and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentDebit:
		return "Débito"
	case PaymentCredit:
		return "Crédito"
	case PaymentPix:
		return "PIX"
	default:
		return string(m)
	}
}

// ParsePaymentMethod converts a raw string to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

// SaleItem is one line of a finalized sale. Product is the value the
// cashier rang up, frozen at finalization.
type SaleItem struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

// Subtotal returns quantity times unit sale price.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Product.SalePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale is an immutable record of a completed checkout.
type Sale struct {
	ID            string          `json:"id"`
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CashierID     string          `json:"cashier_id"`
	CashierName   string          `json:"cashier_name"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ItemCount returns the number of units sold.
func (s Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// =============================================================================
// SALE REPOSITORY
// =============================================================================

// SaleRepository is the append-only sales history.
type SaleRepository interface {
	// CreateSale assigns the next sequential identifier and appends the sale.
	CreateSale(ctx context.Context, s *Sale) error

	GetSale(ctx context.Context, id string) (*Sale, error)

	// ListSales returns the history newest first.
	ListSales(ctx context.Context) ([]Sale, error)
}

var (
	ErrSaleNotFound         = &Error{Code: ENOTFOUND, Message: "Sale not found"}
	ErrInvalidPaymentMethod = &Error{Code: EINVALID, Message: "Payment method must be cash, debit, credit or pix"}
)
