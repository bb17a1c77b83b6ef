package telemetry

import (
	"errors"
	"testing"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBusinessMetrics_RecordSale(t *testing.T) {
	m := NewBusinessMetrics("test", prometheus.NewRegistry())

	m.RecordSale(domain.Sale{
		Items:         []domain.SaleItem{{Quantity: 3}},
		Total:         decimal.RequireFromString("42.50"),
		Discount:      decimal.RequireFromString("2.00"),
		PaymentMethod: domain.PaymentDebit,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesCompleted.WithLabelValues("debit")))
	assert.Equal(t, 42.5, testutil.ToFloat64(m.Revenue.WithLabelValues("debit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SalesCompleted.WithLabelValues("pix")))
}

func TestBusinessMetrics_Counters(t *testing.T) {
	m := NewBusinessMetrics("test", prometheus.NewRegistry())

	m.RecordCartOperation("add")
	m.RecordCartOperation("add")
	m.RecordCheckoutRejected("empty_cart")
	m.RecordSessionStarted()
	m.RecordSessionAbandoned()
	m.RecordLogin(domain.RoleCashier)
	m.RecordLoginFailed("bad_password")
	m.RecordEventPublished("pdv.sale.completed", nil)
	m.RecordEventPublished("pdv.sale.completed", errors.New("down"))
	m.SetOutOfStock(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartOperations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutRejected.WithLabelValues("empty_cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("cashier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("pdv.sale.completed", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ProductsOutOfStock))
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordSale(domain.Sale{})
		m.RecordCartOperation("add")
		m.RecordCheckoutRejected("empty_cart")
		m.RecordSessionStarted()
		m.RecordSessionAbandoned()
		m.RecordLogin(domain.RoleAdmin)
		m.RecordLoginFailed("unknown_email")
		m.RecordEventPublished("x", nil)
		m.SetOutOfStock(1)
	})
}
