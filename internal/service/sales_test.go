package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/memory"
	"github.com/dukerupert/megapdv/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSales(t *testing.T, store *memory.Store, at time.Time) {
	t.Helper()

	product := domain.Product{ID: "p1", Name: "Leite Integral 1L", Code: "MER010", SalePrice: dec("5.49"), Stock: 4}
	require.NoError(t, store.CreateProduct(context.Background(), &product))

	sales := []struct {
		method  domain.PaymentMethod
		cashier domain.User
		qty     int
	}{
		{domain.PaymentCash, cashier, 2},
		{domain.PaymentPix, manager, 1},
		{domain.PaymentPix, cashier, 4},
	}
	for _, s := range sales {
		item := domain.SaleItem{Product: product, Quantity: s.qty, Discount: dec("0")}
		sale := &domain.Sale{
			Items:         []domain.SaleItem{item},
			Subtotal:      item.Subtotal(),
			Discount:      dec("0"),
			Total:         item.Subtotal(),
			PaymentMethod: s.method,
			CashierID:     s.cashier.ID,
			CashierName:   s.cashier.Name,
			CreatedAt:     at,
		}
		require.NoError(t, store.CreateSale(context.Background(), sale))
	}
}

func TestSalesService_ListSales(t *testing.T) {
	store := memory.New()
	seedSales(t, store, time.Now())
	svc := NewSalesService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  SalesFilter
		ids     []string
		revenue string
	}{
		{"everything newest first", SalesFilter{}, []string{"V003", "V002", "V001"}, "38.43"},
		{"all methods", SalesFilter{PaymentMethod: "all"}, []string{"V003", "V002", "V001"}, "38.43"},
		{"by payment method", SalesFilter{PaymentMethod: "pix"}, []string{"V003", "V002"}, "27.45"},
		{"by sale id", SalesFilter{Search: "v001"}, []string{"V001"}, "10.98"},
		{"by cashier name", SalesFilter{Search: "maria"}, []string{"V002"}, "5.49"},
		{"no match", SalesFilter{Search: "zzz"}, []string{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.ListSales(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(list.Sales))
			for _, s := range list.Sales {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, len(tt.ids), list.Count)
			assert.True(t, dec(tt.revenue).Equal(list.Revenue), "revenue %s", list.Revenue)
		})
	}

	t.Run("unknown payment method", func(t *testing.T) {
		_, err := svc.ListSales(ctx, SalesFilter{PaymentMethod: "boleto"})
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})
}

func TestSalesService_GetSale(t *testing.T) {
	store := memory.New()
	seedSales(t, store, time.Now())
	svc := NewSalesService(store)

	sale, err := svc.GetSale(context.Background(), "V002")
	require.NoError(t, err)
	assert.Equal(t, manager.Name, sale.CashierName)

	_, err = svc.GetSale(context.Background(), "V999")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestReportService(t *testing.T) {
	store := memory.New()
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	seedSales(t, store, now.Add(-time.Hour))

	svc := NewReportService(store, store, nil, "Mercado Central").(*reportService)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("dashboard", func(t *testing.T) {
		d, err := svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, d.Today.Count)
		assert.True(t, dec("38.43").Equal(d.Today.Revenue))
		assert.True(t, dec("12.81").Equal(d.Today.AverageTicket))
		assert.Equal(t, 1, d.Stock.LowStock)
	})

	t.Run("default period is today", func(t *testing.T) {
		r, err := svc.Report(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, report.PeriodToday, r.Period)
		assert.Equal(t, 7, r.Totals.ItemsSold)
		require.Len(t, r.ByOperator, 2)
		assert.Equal(t, cashier.Name, r.ByOperator[0].CashierName)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := svc.Report(ctx, "fortnight")
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("pdf export", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, svc.ExportPDF(ctx, report.PeriodMonth, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	})
}
