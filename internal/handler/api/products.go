package api

import (
	"net/http"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/service"
)

// ProductHandler handles catalog routes
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/products?search=&category=
//
// With ?code= it resolves a scanned code or barcode instead and returns
// a single product.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("code") {
		p, err := h.products.FindByCode(r.Context(), q.Get("code"))
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		handler.WriteJSON(w, http.StatusOK, p)
		return
	}

	products, err := h.products.ListProducts(r.Context(), service.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, p)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	p, err := h.products.CreateProduct(r.Context(), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	p, err := h.products.UpdateProduct(r.Context(), r.PathValue("id"), input)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /api/products/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Stats handles GET /api/products/stats
func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.products.StockStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, stats)
}
