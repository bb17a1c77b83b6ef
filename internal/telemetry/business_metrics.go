package telemetry

import (
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for register-level observability.
// Methods are safe to call on a nil receiver so services can run without metrics.
type BusinessMetrics struct {
	// Checkout funnel
	SessionsStarted   prometheus.Counter
	SessionsAbandoned prometheus.Counter
	CartOperations    *prometheus.CounterVec
	CheckoutRejected  *prometheus.CounterVec

	// Sales
	SalesCompleted *prometheus.CounterVec
	SaleValue      *prometheus.HistogramVec
	SaleItemCount  prometheus.Histogram
	SaleDiscount   prometheus.Histogram
	Revenue        *prometheus.CounterVec

	// Catalog
	ProductsOutOfStock prometheus.Gauge

	// Auth
	Logins      *prometheus.CounterVec
	LoginFailed *prometheus.CounterVec

	// Events
	EventsPublished *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics and registers them on reg.
// A nil reg uses the default Prometheus registry.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "megapdv"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	subsystem := "business"
	factory := promauto.With(reg)

	return &BusinessMetrics{
		// =======================================================================
		// Checkout Funnel
		// =======================================================================
		SessionsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_sessions_started_total",
				Help:      "Total checkout sessions opened at a register",
			},
		),
		SessionsAbandoned: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_sessions_abandoned_total",
				Help:      "Total checkout sessions discarded before payment",
			},
		),
		CartOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_operations_total",
				Help:      "Total cart ledger mutations",
			},
			[]string{"operation"}, // add, remove, quantity, item_discount, global_discount, clear
		),
		CheckoutRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_rejected_total",
				Help:      "Total checkout operations rejected by validation",
			},
			[]string{"reason"}, // empty_cart, payment_method, out_of_stock, invalid_discount
		),

		// =======================================================================
		// Sales
		// =======================================================================
		SalesCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sales_completed_total",
				Help:      "Total finalized sales",
			},
			[]string{"payment_method"},
		),
		SaleValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sale_value",
				Help:      "Sale total in currency units",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"payment_method"},
		),
		SaleItemCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sale_item_count",
				Help:      "Units per sale",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),
		SaleDiscount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sale_discount",
				Help:      "Total discount granted per sale in currency units",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		Revenue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "revenue_total",
				Help:      "Total revenue in currency units",
			},
			[]string{"payment_method"},
		),

		// =======================================================================
		// Catalog
		// =======================================================================
		ProductsOutOfStock: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "products_out_of_stock",
				Help:      "Products with zero stock at last catalog read",
			},
		),

		// =======================================================================
		// Auth
		// =======================================================================
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total successful logins",
			},
			[]string{"role"},
		),
		LoginFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "login_failed_total",
				Help:      "Total failed login attempts",
			},
			[]string{"reason"}, // unknown_email, bad_password
		),

		// =======================================================================
		// Events
		// =======================================================================
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Checkout events handed to the broker",
			},
			[]string{"subject", "status"}, // status: ok, error
		),
	}
}

// RecordSale records a finalized sale.
func (m *BusinessMetrics) RecordSale(sale domain.Sale) {
	if m == nil {
		return
	}
	method := string(sale.PaymentMethod)
	total, _ := sale.Total.Float64()
	discount, _ := sale.Discount.Float64()

	m.SalesCompleted.WithLabelValues(method).Inc()
	m.SaleValue.WithLabelValues(method).Observe(total)
	m.Revenue.WithLabelValues(method).Add(total)
	m.SaleItemCount.Observe(float64(sale.ItemCount()))
	m.SaleDiscount.Observe(discount)
}

// RecordCartOperation counts one ledger mutation.
func (m *BusinessMetrics) RecordCartOperation(op string) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(op).Inc()
}

// RecordCheckoutRejected counts a rejected checkout operation.
func (m *BusinessMetrics) RecordCheckoutRejected(reason string) {
	if m == nil {
		return
	}
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}

// RecordSessionStarted counts a new checkout session.
func (m *BusinessMetrics) RecordSessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// RecordSessionAbandoned counts a discarded checkout session.
func (m *BusinessMetrics) RecordSessionAbandoned() {
	if m == nil {
		return
	}
	m.SessionsAbandoned.Inc()
}

// RecordLogin counts a successful login.
func (m *BusinessMetrics) RecordLogin(role domain.Role) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(string(role)).Inc()
}

// RecordLoginFailed counts a failed login.
func (m *BusinessMetrics) RecordLoginFailed(reason string) {
	if m == nil {
		return
	}
	m.LoginFailed.WithLabelValues(reason).Inc()
}

// RecordEventPublished counts a publish attempt.
func (m *BusinessMetrics) RecordEventPublished(subject string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(subject, status).Inc()
}

// SetOutOfStock updates the out-of-stock gauge.
func (m *BusinessMetrics) SetOutOfStock(n int) {
	if m == nil {
		return
	}
	m.ProductsOutOfStock.Set(float64(n))
}
