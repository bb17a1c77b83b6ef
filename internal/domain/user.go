package domain

import (
	"context"
	"time"
)

// =============================================================================
// USER DOMAIN TYPES
// =============================================================================

// Role is the access level of a PDV user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleCashier}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// Label returns the display name shown in the back office.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleManager:
		return "Gerente"
	case RoleCashier:
		return "Operador de Caixa"
	default:
		return string(r)
	}
}

// ParseRole converts a raw string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User is an operator of the system. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// =============================================================================
// USER REPOSITORY
// =============================================================================

// UserRepository stores users. Email lookups are case-insensitive.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) error

	// UpdateUser returns ErrEmailTaken when the new email belongs to another user.
	UpdateUser(ctx context.Context, u *User) error

	DeleteUser(ctx context.Context, id string) error
}

var (
	ErrUserNotFound = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken   = &Error{Code: ECONFLICT, Message: "Email is already registered"}
	ErrInvalidRole  = &Error{Code: EINVALID, Message: "Role must be admin, manager or cashier"}
)
