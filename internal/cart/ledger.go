// Package cart holds the in-progress sale of a single register.
//
// A Ledger keeps at most one line per product plus a sale-wide discount.
// Derived values (subtotal, discount, total) are recomputed from the lines on
// every read, so they can never drift from the line state. A Ledger is owned by
// one checkout session and is not safe for concurrent use.
package cart

import (
	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/shopspring/decimal"
)

// Line is one product on the ledger.
// Quantity is always at least 1; Discount is an absolute currency amount.
type Line struct {
	Product  domain.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

// Subtotal returns quantity times the product's sale price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.SalePrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger is the mutable cart state.
type Ledger struct {
	lines          []Line
	globalDiscount decimal.Decimal
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) index(productID string) int {
	for i := range l.lines {
		if l.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p by one, or appends a new line with
// quantity 1 and no discount. The product value stored on an existing line is
// kept; stock is not consulted.
func (l *Ledger) AddItem(p domain.Product) {
	if i := l.index(p.ID); i >= 0 {
		l.lines[i].Quantity++
		return
	}
	l.lines = append(l.lines, Line{Product: p, Quantity: 1, Discount: decimal.Zero})
}

// RemoveItem deletes the line for productID. Unknown ids are ignored.
func (l *Ledger) RemoveItem(productID string) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
}

// UpdateQuantity sets the absolute quantity of a line.
// A quantity of zero or less removes the line. Unknown ids are ignored.
func (l *Ledger) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(productID)
		return
	}
	if i := l.index(productID); i >= 0 {
		l.lines[i].Quantity = quantity
	}
}

// ApplyItemDiscount overwrites the discount of a line. Unknown ids are ignored.
func (l *Ledger) ApplyItemDiscount(productID string, discount decimal.Decimal) {
	if i := l.index(productID); i >= 0 {
		l.lines[i].Discount = discount
	}
}

// SetGlobalDiscount overwrites the sale-wide discount.
// The amount is not checked against the subtotal; Total floors at zero.
func (l *Ledger) SetGlobalDiscount(amount decimal.Decimal) {
	l.globalDiscount = amount
}

// Clear empties the ledger and resets the global discount.
func (l *Ledger) Clear() {
	l.lines = nil
	l.globalDiscount = decimal.Zero
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Line returns the line for productID.
func (l *Ledger) Line(productID string) (Line, bool) {
	if i := l.index(productID); i >= 0 {
		return l.lines[i], true
	}
	return Line{}, false
}

// GlobalDiscount returns the sale-wide discount.
func (l *Ledger) GlobalDiscount() decimal.Decimal {
	return l.globalDiscount
}

// Len returns the number of distinct products.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// IsEmpty reports whether the ledger has no lines.
func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

// ItemCount returns the number of units across all lines.
func (l *Ledger) ItemCount() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal returns the sum of quantity times sale price over all lines.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}

// LineDiscounts returns the sum of per-line discounts.
func (l *Ledger) LineDiscounts() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Discount)
	}
	return sum
}

// TotalDiscount returns the line discounts plus the global discount.
func (l *Ledger) TotalDiscount() decimal.Decimal {
	return l.LineDiscounts().Add(l.globalDiscount)
}

// Total returns subtotal minus total discount, never below zero.
func (l *Ledger) Total() decimal.Decimal {
	total := l.Subtotal().Sub(l.TotalDiscount())
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Summary is a point-in-time view of the ledger and its derived values.
type Summary struct {
	Lines          []Line          `json:"lines"`
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	LineDiscounts  decimal.Decimal `json:"line_discounts"`
	GlobalDiscount decimal.Decimal `json:"global_discount"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
}

// Summary computes every derived value at once.
func (l *Ledger) Summary() Summary {
	return Summary{
		Lines:          l.Lines(),
		ItemCount:      l.ItemCount(),
		Subtotal:       l.Subtotal(),
		LineDiscounts:  l.LineDiscounts(),
		GlobalDiscount: l.globalDiscount,
		Discount:       l.TotalDiscount(),
		Total:          l.Total(),
	}
}
