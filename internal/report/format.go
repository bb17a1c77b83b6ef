package report

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatBRL renders an amount as Brazilian reais, e.g. "R$ 1.234,56".
// Negative amounts carry the sign before the symbol.
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)
	f, _ := d.Abs().Float64()

	p := message.NewPrinter(language.BrazilianPortuguese)
	s := p.Sprintf("%v %.2f", currency.Symbol(currency.BRL), f)
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
