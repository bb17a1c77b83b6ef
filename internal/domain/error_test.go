package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrProductNotFound, "Product not found"},
		{"with op", Errorf(EINVALID, "checkout.finalize", "Cart is empty"), "checkout.finalize: Cart is empty"},
		{"formatted", Errorf(ENOTFOUND, "sale.get", "sale %s not found", "V007"), "sale.get: sale V007 not found"},
		{
			"internal keeps cause for logs",
			Internal(errors.New("nats: timeout"), "sale.publish", "failed to publish sale"),
			"sale.publish: failed to publish sale: nats: timeout",
		},
		{"internal without op", Internal(errors.New("disk full"), "", "failed to render"), "failed to render: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestInternal_Unwraps(t *testing.T) {
	cause := errors.New("store unavailable")
	err := fmt.Errorf("finalize V012: %w", Internal(cause, "sale.create", "failed to record sale"))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, EINTERNAL, ErrorCode(err))
	assert.Equal(t, "sale.create", ErrorOp(err))
}

func TestErrorCode_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"product lookup", ErrProductNotFound, ENOTFOUND},
		{"sale lookup", ErrSaleNotFound, ENOTFOUND},
		{"user lookup", ErrUserNotFound, ENOTFOUND},
		{"duplicate email", ErrEmailTaken, ECONFLICT},
		{"unknown role", ErrInvalidRole, EINVALID},
		{"unknown payment method", ErrInvalidPaymentMethod, EINVALID},
		{"wrapped by a repository", fmt.Errorf("memory: get p9: %w", ErrProductNotFound), ENOTFOUND},
		{"login rejected", Unauthorized("auth.login", "Invalid email or password"), EUNAUTHORIZED},
		{"duplicate product id", Conflict("product.create", "product id already exists"), ECONFLICT},
		{"body over limit", Errorf(ETOOLARGE, "", "Request body too large"), ETOOLARGE},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "Email is already registered", ErrorMessage(ErrEmailTaken))
	assert.Equal(t, "Payment method must be cash, debit, credit or pix", ErrorMessage(fmt.Errorf("finalize: %w", ErrInvalidPaymentMethod)))

	t.Run("internal details stay in logs", func(t *testing.T) {
		err := Internal(errors.New("dial tcp 10.0.0.12:4222"), "sale.publish", "nats unreachable at 10.0.0.12")
		assert.Equal(t, internalMessage, ErrorMessage(err))
		assert.Equal(t, internalMessage, ErrorMessage(errors.New("raw failure")))
	})
}

func TestParsePaymentMethod_ReturnsSentinel(t *testing.T) {
	_, err := ParsePaymentMethod("boleto")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestValidationError(t *testing.T) {
	t.Run("single field", func(t *testing.T) {
		err := NewValidationError("checkout.add_item", "product_id", "product_id or code is required")
		assert.Equal(t, "checkout.add_item: product_id: product_id or code is required", err.Error())
		assert.True(t, IsValidationError(err))
	})

	t.Run("fields accumulate on one error", func(t *testing.T) {
		var err error
		err = AddFieldError(err, "name", "name is required")
		err = AddFieldError(err, "sale_price", "must be greater than or equal to 0")
		err = AddFieldError(err, "stock", "must be greater than or equal to 0")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		ve.Op = "product.create"

		assert.Equal(t, "product.create: validation failed for 3 fields", err.Error())
		assert.Equal(t, map[string]string{
			"name":       "name is required",
			"sale_price": "must be greater than or equal to 0",
			"stock":      "must be greater than or equal to 0",
		}, GetValidationFields(err))
	})

	t.Run("not a validation error", func(t *testing.T) {
		assert.False(t, IsValidationError(ErrEmailTaken))
		assert.Nil(t, GetValidationFields(ErrEmailTaken))
		assert.NotNil(t, GetValidationFields(AddFieldError(ErrEmailTaken, "email", "is taken")))
	})

	t.Run("has no domain code", func(t *testing.T) {
		// The handler checks IsValidationError before ErrorCode and answers 400.
		err := NewValidationError("user.create", "email", "must be a valid email address")
		assert.Equal(t, EINTERNAL, ErrorCode(err))
	})
}
