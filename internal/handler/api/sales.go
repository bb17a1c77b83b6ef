package api

import (
	"net/http"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/service"
)

// SalesHandler handles the sales history routes
type SalesHandler struct {
	sales service.SalesService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(sales service.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// List handles GET /api/sales?search=&payment_method=
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.sales.ListSales(r.Context(), service.SalesFilter{
		Search:        q.Get("search"),
		PaymentMethod: q.Get("payment_method"),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if list.Sales == nil {
		list.Sales = []domain.Sale{}
	}
	handler.WriteJSON(w, http.StatusOK, list)
}

// Get handles GET /api/sales/{id}
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.GetSale(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, sale)
}
