package report

import (
	"sort"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

// ProductSales is how much of one product was sold.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// PaymentBreakdown is the volume taken through one payment method.
type PaymentBreakdown struct {
	Method  domain.PaymentMethod `json:"method"`
	Label   string               `json:"label"`
	Count   int                  `json:"count"`
	Revenue decimal.Decimal      `json:"revenue"`
}

// OperatorSales is the volume rung up by one cashier.
type OperatorSales struct {
	CashierID   string          `json:"cashier_id"`
	CashierName string          `json:"cashier_name"`
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// WeekdaySales is the volume for one day of the week.
type WeekdaySales struct {
	Weekday time.Weekday    `json:"weekday"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// HourlySales is the volume for one hour of the day.
type HourlySales struct {
	Hour    int             `json:"hour"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Totals are the headline figures of a set of sales.
type Totals struct {
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	Discounts     decimal.Decimal `json:"discounts"`
	ItemsSold     int             `json:"items_sold"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// StockAlerts counts catalog products that need attention.
type StockAlerts struct {
	Products   int `json:"products"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// Dashboard is the overview shown after login.
type Dashboard struct {
	GeneratedAt    time.Time          `json:"generated_at"`
	Today          Totals             `json:"today"`
	TopProducts    []ProductSales     `json:"top_products"`
	SalesByHour    []HourlySales      `json:"sales_by_hour"`
	PaymentMethods []PaymentBreakdown `json:"payment_methods"`
	RecentSales    []domain.Sale      `json:"recent_sales"`
	Stock          StockAlerts        `json:"stock"`
}

// Report is the full analysis of one period.
type Report struct {
	Period          Period             `json:"period"`
	PeriodLabel     string             `json:"period_label"`
	From            time.Time          `json:"from"`
	To              time.Time          `json:"to"`
	Totals          Totals             `json:"totals"`
	ByWeekday       []WeekdaySales     `json:"by_weekday"`
	ByOperator      []OperatorSales    `json:"by_operator"`
	ByPaymentMethod []PaymentBreakdown `json:"by_payment_method"`
	TopProducts     []ProductSales     `json:"top_products"`
	LowStock        []domain.Product   `json:"low_stock"`
}

// Summarize computes headline totals. The average ticket is rounded to cents.
func Summarize(sales []domain.Sale) Totals {
	t := Totals{
		Revenue:       decimal.Zero,
		Discounts:     decimal.Zero,
		AverageTicket: decimal.Zero,
	}
	for _, s := range sales {
		t.Count++
		t.Revenue = t.Revenue.Add(s.Total)
		t.Discounts = t.Discounts.Add(s.Discount)
		t.ItemsSold += s.ItemCount()
	}
	if t.Count > 0 {
		t.AverageTicket = t.Revenue.Div(decimal.NewFromInt(int64(t.Count))).Round(2)
	}
	return t
}

// TopProducts ranks products by units sold, then revenue, then name.
func TopProducts(sales []domain.Sale, limit int) []ProductSales {
	byID := make(map[string]*ProductSales)
	for _, s := range sales {
		for _, item := range s.Items {
			ps, ok := byID[item.Product.ID]
			if !ok {
				ps = &ProductSales{
					ProductID: item.Product.ID,
					Name:      item.Product.Name,
					Code:      item.Product.Code,
					Revenue:   decimal.Zero,
				}
				byID[item.Product.ID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.Subtotal().Sub(item.Discount))
		}
	}

	out := make([]ProductSales, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ByPaymentMethod returns one entry per payment method, including unused ones.
func ByPaymentMethod(sales []domain.Sale) []PaymentBreakdown {
	methods := domain.PaymentMethods()
	out := make([]PaymentBreakdown, len(methods))
	index := make(map[domain.PaymentMethod]int, len(methods))
	for i, m := range methods {
		out[i] = PaymentBreakdown{Method: m, Label: m.Label(), Revenue: decimal.Zero}
		index[m] = i
	}

	for _, s := range sales {
		i, ok := index[s.PaymentMethod]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(s.Total)
	}
	return out
}

// ByOperator ranks cashiers by revenue.
func ByOperator(sales []domain.Sale) []OperatorSales {
	byID := make(map[string]*OperatorSales)
	for _, s := range sales {
		op, ok := byID[s.CashierID]
		if !ok {
			op = &OperatorSales{CashierID: s.CashierID, CashierName: s.CashierName, Revenue: decimal.Zero}
			byID[s.CashierID] = op
		}
		op.Count++
		op.Revenue = op.Revenue.Add(s.Total)
	}

	out := make([]OperatorSales, 0, len(byID))
	for _, op := range byID {
		out = append(out, *op)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].CashierName < out[j].CashierName
	})
	return out
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Seg",
	time.Tuesday:   "Ter",
	time.Wednesday: "Qua",
	time.Thursday:  "Qui",
	time.Friday:    "Sex",
	time.Saturday:  "Sáb",
	time.Sunday:    "Dom",
}

// ByWeekday returns seven entries, Monday first.
func ByWeekday(sales []domain.Sale) []WeekdaySales {
	out := make([]WeekdaySales, len(weekdayOrder))
	index := make(map[time.Weekday]int, len(weekdayOrder))
	for i, d := range weekdayOrder {
		out[i] = WeekdaySales{Weekday: d, Label: weekdayLabels[d], Revenue: decimal.Zero}
		index[d] = i
	}

	for _, s := range sales {
		i := index[s.CreatedAt.Weekday()]
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(s.Total)
	}
	return out
}

// ByHour returns 24 entries, one per hour of the day.
func ByHour(sales []domain.Sale) []HourlySales {
	out := make([]HourlySales, 24)
	for h := range out {
		out[h] = HourlySales{Hour: h, Revenue: decimal.Zero}
	}
	for _, s := range sales {
		h := s.CreatedAt.Hour()
		out[h].Count++
		out[h].Revenue = out[h].Revenue.Add(s.Total)
	}
	return out
}

// LowStock returns products at or below the low stock threshold, lowest
// stock first.
func LowStock(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.Stock <= domain.LowStockThreshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}

func stockAlerts(products []domain.Product) StockAlerts {
	a := StockAlerts{Products: len(products)}
	for _, p := range products {
		switch {
		case p.IsOutOfStock():
			a.OutOfStock++
		case p.IsLowStock():
			a.LowStock++
		}
	}
	return a
}

// BuildReport analyses the sales that fall in period as of now. sales may
// hold the full history; it is filtered here.
func BuildReport(period Period, now time.Time, sales []domain.Sale, products []domain.Product) *Report {
	from, to := period.Range(now)
	window := InRange(sales, from, to)

	return &Report{
		Period:          period,
		PeriodLabel:     period.Label(),
		From:            from,
		To:              to,
		Totals:          Summarize(window),
		ByWeekday:       ByWeekday(window),
		ByOperator:      ByOperator(window),
		ByPaymentMethod: ByPaymentMethod(window),
		TopProducts:     TopProducts(window, topProductsLimit),
		LowStock:        LowStock(products),
	}
}

// BuildDashboard computes today's overview. sales must be newest first.
func BuildDashboard(now time.Time, sales []domain.Sale, products []domain.Product) *Dashboard {
	from, to := PeriodToday.Range(now)
	today := InRange(sales, from, to)

	recent := sales
	if len(recent) > topProductsLimit {
		recent = recent[:topProductsLimit]
	}

	return &Dashboard{
		GeneratedAt:    now,
		Today:          Summarize(today),
		TopProducts:    TopProducts(today, topProductsLimit),
		SalesByHour:    ByHour(today),
		PaymentMethods: ByPaymentMethod(today),
		RecentSales:    append([]domain.Sale(nil), recent...),
		Stock:          stockAlerts(products),
	}
}
