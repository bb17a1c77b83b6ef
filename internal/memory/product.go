package memory

import (
	"context"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/google/uuid"
)

// ListProducts returns every product in insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, s.products[id])
	}
	return out, nil
}

// GetProduct returns a copy of the product with the given id.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

// CreateProduct stores p, filling in ID and CreatedAt when empty.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.products[p.ID]; exists {
		return domain.Conflict("product.create", "product id already exists")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	s.products[p.ID] = *p
	s.productOrder = append(s.productOrder, p.ID)
	return nil
}

// UpdateProduct replaces the stored product. CreatedAt is preserved.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.CreatedAt = existing.CreatedAt
	s.products[p.ID] = *p
	return nil
}

// DeleteProduct removes the product. Past sales keep their own copy.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	s.productOrder = removeID(s.productOrder, id)
	return nil
}
