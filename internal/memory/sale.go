package memory

import (
	"context"
	"fmt"

	"github.com/dukerupert/megapdv/internal/domain"
)

// CreateSale assigns the next identifier (V001, V002, ...) and appends the
// sale to the history. Numbering and append happen under one lock so two
// registers can never receive the same identifier.
func (s *Store) CreateSale(ctx context.Context, sale *domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saleSeq++
	sale.ID = fmt.Sprintf("V%03d", s.saleSeq)
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = s.now()
	}

	stored := *sale
	stored.Items = append([]domain.SaleItem(nil), sale.Items...)
	s.sales = append(s.sales, stored)
	return nil
}

// GetSale returns a copy of the sale with the given identifier.
func (s *Store) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.sales {
		if s.sales[i].ID == id {
			return copySale(s.sales[i]), nil
		}
	}
	return nil, domain.ErrSaleNotFound
}

// ListSales returns the history newest first.
func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Sale, 0, len(s.sales))
	for i := len(s.sales) - 1; i >= 0; i-- {
		out = append(out, *copySale(s.sales[i]))
	}
	return out, nil
}

func copySale(sale domain.Sale) *domain.Sale {
	sale.Items = append([]domain.SaleItem(nil), sale.Items...)
	return &sale
}
