package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/telemetry"
)

// UserService provides business logic for user operations
type UserService interface {
	// ListUsers returns users whose name or email contains search
	ListUsers(ctx context.Context, search string) ([]domain.User, error)

	GetUser(ctx context.Context, id string) (*domain.User, error)

	// CreateUser registers a new user; a password is mandatory
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)

	// UpdateUser changes name, email and role; the password is untouched
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)

	// DeleteUser removes a user; actorID may not delete itself
	DeleteUser(ctx context.Context, actorID, id string) error

	ChangePassword(ctx context.Context, id, password, confirmation string) error

	// Authenticate verifies email/password and returns the user if valid
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	RoleCounts(ctx context.Context) (map[domain.Role]int, error)
}

// CreateUserInput holds the fields accepted when creating a user.
type CreateUserInput struct {
	Name     string      `json:"name" validate:"required,max=120"`
	Email    string      `json:"email" validate:"required,email,max=254"`
	Role     domain.Role `json:"role" validate:"required,role"`
	Password string      `json:"password" validate:"required,min=6"`
}

// UpdateUserInput holds the fields accepted when editing a user.
type UpdateUserInput struct {
	Name  string      `json:"name" validate:"required,max=120"`
	Email string      `json:"email" validate:"required,email,max=254"`
	Role  domain.Role `json:"role" validate:"required,role"`
}

type userService struct {
	repo    domain.UserRepository
	metrics *telemetry.BusinessMetrics
}

// NewUserService creates a new UserService instance
func NewUserService(repo domain.UserRepository, metrics *telemetry.BusinessMetrics) UserService {
	return &userService{
		repo:    repo,
		metrics: metrics,
	}
}

func (s *userService) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return users, nil
	}

	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct("user.create", input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, ErrPasswordTooShort
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct("user.update", input); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = input.Name
	u.Email = input.Email
	u.Role = input.Role

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID != "" && actorID == id {
		return ErrCannotDeleteSelf
	}
	return s.repo.DeleteUser(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id, password, confirmation string) error {
	if err := auth.ValidateNewPassword(password, confirmation); err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			return ErrPasswordTooShort
		case errors.Is(err, auth.ErrPasswordConfirmation):
			return ErrPasswordConfirmation
		}
		return err
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Authenticate verifies email/password and returns the user if valid.
// Unknown emails and wrong passwords return the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLoginFailed("unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.metrics.RecordLoginFailed("bad_password")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	s.metrics.RecordLogin(u.Role)
	return u, nil
}

func (s *userService) RoleCounts(ctx context.Context) (map[domain.Role]int, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	counts := make(map[domain.Role]int, len(domain.Roles()))
	for _, r := range domain.Roles() {
		counts[r] = 0
	}
	for _, u := range users {
		counts[u.Role]++
	}
	return counts, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
