package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"unknown_code", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "product not found",
			err:            fmt.Errorf("product.get p9: %w", service.ErrProductNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   domain.ENOTFOUND,
		},
		{
			name:           "empty cart",
			err:            service.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.EINVALID,
		},
		{
			name:           "payment method missing",
			err:            service.ErrPaymentMethodRequired,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.EINVALID,
		},
		{
			name:           "self delete",
			err:            service.ErrCannotDeleteSelf,
			expectedStatus: http.StatusForbidden,
			expectedCode:   domain.EFORBIDDEN,
		},
		{
			name:           "out of stock",
			err:            service.ErrOutOfStock,
			expectedStatus: http.StatusConflict,
			expectedCode:   domain.ECONFLICT,
		},
		{
			name:           "bad login",
			err:            service.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   domain.EUNAUTHORIZED,
		},
		{
			name:           "body too large",
			err:            domain.Errorf(domain.ETOOLARGE, "", "Request body too large"),
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedCode:   domain.ETOOLARGE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil), tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedCode, decodeEnvelope(t, rec).Error.Code)
		})
	}
}

func TestErrorResponse_InternalHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	err := domain.Internal(nil, "sale.create", "store unavailable at 10.0.0.12")
	ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil), err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An internal error occurred. Please try again later.", decodeEnvelope(t, rec).Error.Message)
}

func TestErrorResponse_DelegatesValidation(t *testing.T) {
	rec := httptest.NewRecorder()

	err := domain.NewValidationError("product.create", "name", "is required")
	ErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"name": "is required"}, decodeEnvelope(t, rec).Error.Fields)
}

func TestValidationErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	err := domain.NewValidationError("product.create", "name", "name is required")
	err = domain.AddFieldError(err, "sale_price", "must be greater than or equal to 0")

	ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil), err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, domain.EINVALID, env.Error.Code)
	assert.Len(t, env.Error.Fields, 2)
	assert.Equal(t, "name is required", env.Error.Fields["name"])
}

func TestValidationErrorResponse_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil), service.ErrSaleNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConvenienceResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
	}{
		{"NotFoundResponse", NotFoundResponse, http.StatusNotFound},
		{"UnauthorizedResponse", UnauthorizedResponse, http.StatusUnauthorized},
		{"ForbiddenResponse", ForbiddenResponse, http.StatusForbidden},
		{"InternalErrorResponse", func(w http.ResponseWriter, r *http.Request) { InternalErrorResponse(w, r, nil) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Quantity int `json:"quantity"`
	}

	tests := []struct {
		name string
		body string
		code string
	}{
		{"valid", `{"quantity": 3}`, ""},
		{"empty body", ``, domain.EINVALID},
		{"malformed", `{"quantity": `, domain.EINVALID},
		{"unknown field", `{"qty": 3}`, domain.EINVALID},
		{"wrong type", `{"quantity": "three"}`, domain.EINVALID},
		{"trailing object", `{"quantity": 1}{"quantity": 2}`, domain.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/test", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(req, &p)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, 3, p.Quantity)
				return
			}
			require.Error(t, err)
			if !domain.IsValidationError(err) {
				assert.Equal(t, tt.code, domain.ErrorCode(err))
			}
		})
	}

	t.Run("body too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/test", strings.NewReader(`{"quantity": 123456789}`))
		req.Body = http.MaxBytesReader(rec, req.Body, 4)

		var p payload
		err := DecodeJSON(req, &p)
		assert.Equal(t, domain.ETOOLARGE, domain.ErrorCode(err))
	})
}
