package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	var got service.ProductFilter
	products := &mockProductService{
		listProductsFunc: func(ctx context.Context, filter service.ProductFilter) ([]domain.Product, error) {
			got = filter
			return []domain.Product{{ID: "p1", Name: "Coca-Cola 2L", Code: "BEB001"}}, nil
		},
	}
	h := NewProductHandler(products)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/products?search=coca&category=Bebidas", "", &cashierUser))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ProductFilter{Search: "coca", Category: "Bebidas"}, got)

	var resp struct {
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "BEB001", resp.Products[0].Code)
}

func TestProductHandler_ListEmptyIsArray(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/products", "", &cashierUser))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[],"count":0}`, rec.Body.String())
}

func TestProductHandler_ListByCode(t *testing.T) {
	products := &mockProductService{
		findByCodeFunc: func(ctx context.Context, code string) (*domain.Product, error) {
			if code == "7894900011517" {
				return &domain.Product{ID: "p1", Code: "BEB001"}, nil
			}
			return nil, domain.ErrProductNotFound
		},
	}
	h := NewProductHandler(products)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/products?code=7894900011517", "", &cashierUser))
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "p1", p.ID)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/products?code=000", "", &cashierUser))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Create(t *testing.T) {
	var got service.ProductInput
	products := &mockProductService{
		createProductFunc: func(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
			got = input
			if input.Name == "" {
				return nil, domain.NewValidationError("product.create", "name", "is required")
			}
			return &domain.Product{ID: "new", Name: input.Name, SalePrice: input.SalePrice}, nil
		},
	}
	h := NewProductHandler(products)

	t.Run("created", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"name":"Leite Integral 1L","code":"MER010","category":"Mercearia","purchase_price":"3.80","sale_price":"5.49","stock":30}`
		h.Create(rec, newRequest(http.MethodPost, "/api/products", body, &adminUser))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decimal.RequireFromString("5.49").Equal(got.SalePrice))
		assert.Equal(t, 30, got.Stock)
	})

	t.Run("validation error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Create(rec, newRequest(http.MethodPost, "/api/products", `{"code":"X"}`, &adminUser))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"is required"`)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Create(rec, newRequest(http.MethodPost, "/api/products", `{"name":"X","price":"1"}`, &adminUser))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	var updatedID, deletedID string
	products := &mockProductService{
		updateProductFunc: func(ctx context.Context, id string, input service.ProductInput) (*domain.Product, error) {
			updatedID = id
			return &domain.Product{ID: id, Name: input.Name}, nil
		},
		deleteProductFunc: func(ctx context.Context, id string) error {
			deletedID = id
			if id == "missing" {
				return domain.ErrProductNotFound
			}
			return nil
		},
	}
	h := NewProductHandler(products)

	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(http.MethodPut, "/api/products/p1", `{"name":"Novo"}`, &adminUser, "id", "p1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", updatedID)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/api/products/p1", "", &adminUser, "id", "p1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p1", deletedID)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(http.MethodDelete, "/api/products/missing", "", &adminUser, "id", "missing"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_CategoriesAndStats(t *testing.T) {
	products := &mockProductService{
		categoriesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"Bebidas", "Limpeza"}, nil
		},
		stockStatsFunc: func(ctx context.Context) (*service.StockStats, error) {
			return &service.StockStats{Total: 12, LowStock: 3, OutOfStock: 2}, nil
		},
	}
	h := NewProductHandler(products)

	rec := httptest.NewRecorder()
	h.Categories(rec, newRequest(http.MethodGet, "/api/products/categories", "", &cashierUser))
	assert.JSONEq(t, `{"categories":["Bebidas","Limpeza"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Stats(rec, newRequest(http.MethodGet, "/api/products/stats", "", &adminUser))
	assert.JSONEq(t, `{"total":12,"low_stock":3,"out_of_stock":2}`, rec.Body.String())
}
