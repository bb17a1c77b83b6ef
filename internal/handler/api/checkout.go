package api

import (
	"net/http"
	"strings"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/service"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles register sessions. Every mutating route answers
// with the fresh session view so clients never recompute totals.
type CheckoutHandler struct {
	checkout service.CheckoutService
	products service.ProductService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout service.CheckoutService, products service.ProductService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		products: products,
	}
}

// addItemRequest identifies the product by id or by a scanned code.
type addItemRequest struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type discountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

type finalizeRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type finalizeResponse struct {
	Sale    *domain.Sale             `json:"sale"`
	Session *service.CheckoutSession `json:"session"`
}

// sessionFunc is a checkout operation answered with the session view.
type sessionFunc func(cashier domain.User, sessionID string) (*service.CheckoutSession, error)

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, status int, op sessionFunc) {
	cashier, ok := currentUser(w, r)
	if !ok {
		return
	}

	session, err := op(*cashier, r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, status, session)
}

// Start handles POST /api/checkout/sessions
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusCreated, func(cashier domain.User, _ string) (*service.CheckoutSession, error) {
		return h.checkout.StartSession(r.Context(), cashier)
	})
}

// List handles GET /api/checkout/sessions
func (h *CheckoutHandler) List(w http.ResponseWriter, r *http.Request) {
	cashier, ok := currentUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.checkout.ListSessions(r.Context(), *cashier)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []service.CheckoutSession{}
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// Get handles GET /api/checkout/sessions/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.GetSession(r.Context(), cashier, id)
	})
}

// Abandon handles DELETE /api/checkout/sessions/{id}
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	cashier, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.checkout.AbandonSession(r.Context(), *cashier, r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/checkout/sessions/{id}/items
func (h *CheckoutHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		productID := strings.TrimSpace(req.ProductID)
		if productID == "" {
			if strings.TrimSpace(req.Code) == "" {
				return nil, domain.NewValidationError("checkout.add_item", "product_id", "product_id or code is required")
			}
			// An unknown session answers before an unknown code.
			if _, err := h.checkout.GetSession(r.Context(), cashier, id); err != nil {
				return nil, err
			}
			p, err := h.products.FindByCode(r.Context(), req.Code)
			if err != nil {
				return nil, err
			}
			productID = p.ID
		}
		return h.checkout.AddItem(r.Context(), cashier, id, productID)
	})
}

// RemoveItem handles DELETE /api/checkout/sessions/{id}/items/{productID}
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.RemoveItem(r.Context(), cashier, id, r.PathValue("productID"))
	})
}

// UpdateQuantity handles PUT /api/checkout/sessions/{id}/items/{productID}
func (h *CheckoutHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.UpdateQuantity(r.Context(), cashier, id, r.PathValue("productID"), req.Quantity)
	})
}

// ItemDiscount handles PUT /api/checkout/sessions/{id}/items/{productID}/discount
func (h *CheckoutHandler) ItemDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.ApplyItemDiscount(r.Context(), cashier, id, r.PathValue("productID"), req.Discount)
	})
}

// GlobalDiscount handles PUT /api/checkout/sessions/{id}/discount
func (h *CheckoutHandler) GlobalDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.SetGlobalDiscount(r.Context(), cashier, id, req.Discount)
	})
}

// Clear handles DELETE /api/checkout/sessions/{id}/items
func (h *CheckoutHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.ClearCart(r.Context(), cashier, id)
	})
}

// BeginPayment handles POST /api/checkout/sessions/{id}/payment
func (h *CheckoutHandler) BeginPayment(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.BeginPayment(r.Context(), cashier, id)
	})
}

// CancelPayment handles DELETE /api/checkout/sessions/{id}/payment
func (h *CheckoutHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, func(cashier domain.User, id string) (*service.CheckoutSession, error) {
		return h.checkout.CancelPayment(r.Context(), cashier, id)
	})
}

// Finalize handles POST /api/checkout/sessions/{id}/finalize
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	cashier, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req finalizeRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sessionID := r.PathValue("id")
	sale, err := h.checkout.Finalize(r.Context(), *cashier, sessionID, req.PaymentMethod)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	session, err := h.checkout.GetSession(r.Context(), *cashier, sessionID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, finalizeResponse{
		Sale:    sale,
		Session: session,
	})
}
