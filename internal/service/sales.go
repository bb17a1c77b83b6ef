package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/shopspring/decimal"
)

// SalesService provides read access to the sales history
type SalesService interface {
	// ListSales returns matching sales newest first with their totals
	ListSales(ctx context.Context, filter SalesFilter) (*SalesList, error)

	GetSale(ctx context.Context, id string) (*domain.Sale, error)
}

// SalesFilter narrows the sales history.
// Search matches the sale id or cashier name case-insensitively.
// An empty PaymentMethod or "all" matches every method.
type SalesFilter struct {
	Search        string
	PaymentMethod string
}

// Matches reports whether sale passes the filter.
func (f SalesFilter) Matches(sale domain.Sale) bool {
	if f.PaymentMethod != "" && f.PaymentMethod != "all" && string(sale.PaymentMethod) != f.PaymentMethod {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(sale.ID), q) ||
		strings.Contains(strings.ToLower(sale.CashierName), q)
}

// SalesList is a filtered view of the history.
type SalesList struct {
	Sales   []domain.Sale   `json:"sales"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type salesService struct {
	repo domain.SaleRepository
}

// NewSalesService creates a new SalesService instance
func NewSalesService(repo domain.SaleRepository) SalesService {
	return &salesService{repo: repo}
}

func (s *salesService) ListSales(ctx context.Context, filter SalesFilter) (*SalesList, error) {
	if filter.PaymentMethod != "" && filter.PaymentMethod != "all" {
		if _, err := domain.ParsePaymentMethod(filter.PaymentMethod); err != nil {
			return nil, ErrInvalidPaymentMethod
		}
	}

	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	list := &SalesList{
		Sales:   make([]domain.Sale, 0, len(sales)),
		Revenue: decimal.Zero,
	}
	for _, sale := range sales {
		if !filter.Matches(sale) {
			continue
		}
		list.Sales = append(list.Sales, sale)
		list.Revenue = list.Revenue.Add(sale.Total)
	}
	list.Count = len(list.Sales)
	return list, nil
}

func (s *salesService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.repo.GetSale(ctx, id)
}
