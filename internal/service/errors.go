package service

import (
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/report"
)

// Lookup errors - use domain.ENOTFOUND
var (
	ErrProductNotFound = domain.ErrProductNotFound
	ErrUserNotFound    = domain.ErrUserNotFound
	ErrSaleNotFound    = domain.ErrSaleNotFound
	ErrSessionNotFound = domain.Errorf(domain.ENOTFOUND, "", "Checkout session not found")
)

// Checkout errors
var (
	ErrEmptyCart             = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrPaymentMethodRequired = domain.Errorf(domain.EINVALID, "", "Select a payment method")
	ErrInvalidPaymentMethod  = domain.ErrInvalidPaymentMethod
	ErrOutOfStock            = domain.Errorf(domain.ECONFLICT, "", "Product is out of stock")
	ErrInvalidDiscount       = domain.Errorf(domain.EINVALID, "", "Discount must not be negative")
	ErrNotReadyToPay         = domain.Errorf(domain.EINVALID, "", "Checkout is not awaiting payment")
)

// User errors
var (
	ErrEmailTaken           = domain.ErrEmailTaken
	ErrInvalidCredentials   = domain.Errorf(domain.EUNAUTHORIZED, "", "Invalid email or password")
	ErrCannotDeleteSelf     = domain.Errorf(domain.EFORBIDDEN, "", "You cannot delete your own account")
	ErrPasswordTooShort     = domain.Errorf(domain.EINVALID, "", "Password must be at least 6 characters")
	ErrPasswordConfirmation = domain.Errorf(domain.EINVALID, "", "Passwords do not match")
)

// Report errors
var (
	ErrInvalidPeriod = report.ErrInvalidPeriod
)
