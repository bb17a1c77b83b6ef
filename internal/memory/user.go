package memory

import (
	"context"
	"strings"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/google/uuid"
)

// ListUsers returns every user in insertion order.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out, nil
}

// GetUser returns a copy of the user with the given id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByEmail looks a user up by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.findByEmail(email); ok {
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

// findByEmail must be called with s.mu held.
func (s *Store) findByEmail(email string) (domain.User, bool) {
	for _, id := range s.userOrder {
		if u := s.users[id]; strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}

// CreateUser stores u, filling in ID and CreatedAt when empty.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.findByEmail(u.Email); taken {
		return domain.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}

	s.users[u.ID] = *u
	s.userOrder = append(s.userOrder, u.ID)
	return nil
}

// UpdateUser replaces the stored user. CreatedAt is preserved.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if other, taken := s.findByEmail(u.Email); taken && other.ID != u.ID {
		return domain.ErrEmailTaken
	}
	u.CreatedAt = existing.CreatedAt
	s.users[u.ID] = *u
	return nil
}

// DeleteUser removes the user. Sales keep the cashier name they were rung up with.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	return nil
}
