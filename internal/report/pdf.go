package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls the heading of an exported report.
type PDFOptions struct {
	StoreName string
}

type column struct {
	title string
	width float64
	align string
}

// WritePDF renders r as an A4 PDF document.
func WritePDF(w io.Writer, r *Report, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Relatório %s", r.PeriodLabel)), false)
	pdf.AddPage()

	// Heading
	pdf.SetFont("Arial", "B", 16)
	title := "Relatório de Vendas"
	if opts.StoreName != "" {
		title = fmt.Sprintf("%s - %s", opts.StoreName, title)
	}
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Período: %s (%s a %s)",
		r.PeriodLabel, FormatDateTime(r.From), FormatDateTime(r.To))), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Totals
	section(pdf, tr, "Resumo")
	pdf.SetFont("Arial", "", 11)
	for _, kv := range [][2]string{
		{"Total de vendas", FormatBRL(r.Totals.Revenue)},
		{"Quantidade de vendas", strconv.Itoa(r.Totals.Count)},
		{"Ticket médio", FormatBRL(r.Totals.AverageTicket)},
		{"Itens vendidos", strconv.Itoa(r.Totals.ItemsSold)},
		{"Descontos concedidos", FormatBRL(r.Totals.Discounts)},
	} {
		pdf.CellFormat(70, 7, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Payment methods
	section(pdf, tr, "Formas de pagamento")
	cols := []column{{"Forma", 80, "L"}, {"Vendas", 40, "C"}, {"Valor", 60, "R"}}
	header(pdf, tr, cols)
	for _, pm := range r.ByPaymentMethod {
		row(pdf, tr, cols, pm.Label, strconv.Itoa(pm.Count), FormatBRL(pm.Revenue))
	}
	pdf.Ln(4)

	// Operators
	section(pdf, tr, "Vendas por operador")
	cols = []column{{"Operador", 80, "L"}, {"Vendas", 40, "C"}, {"Valor", 60, "R"}}
	header(pdf, tr, cols)
	for _, op := range r.ByOperator {
		row(pdf, tr, cols, op.CashierName, strconv.Itoa(op.Count), FormatBRL(op.Revenue))
	}
	pdf.Ln(4)

	// Weekdays
	section(pdf, tr, "Vendas por dia da semana")
	cols = []column{{"Dia", 80, "L"}, {"Vendas", 40, "C"}, {"Valor", 60, "R"}}
	header(pdf, tr, cols)
	for _, d := range r.ByWeekday {
		row(pdf, tr, cols, d.Label, strconv.Itoa(d.Count), FormatBRL(d.Revenue))
	}
	pdf.Ln(4)

	// Top products
	section(pdf, tr, "Produtos mais vendidos")
	cols = []column{{"Produto", 80, "L"}, {"Código", 30, "C"}, {"Qtd", 20, "C"}, {"Valor", 50, "R"}}
	header(pdf, tr, cols)
	for _, p := range r.TopProducts {
		row(pdf, tr, cols, p.Name, p.Code, strconv.Itoa(p.Quantity), FormatBRL(p.Revenue))
	}
	pdf.Ln(4)

	// Low stock
	section(pdf, tr, "Estoque baixo")
	cols = []column{{"Produto", 90, "L"}, {"Código", 30, "C"}, {"Categoria", 40, "L"}, {"Estoque", 20, "C"}}
	header(pdf, tr, cols)
	for _, p := range r.LowStock {
		row(pdf, tr, cols, p.Name, p.Code, p.Category, strconv.Itoa(p.Stock))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, cols []column) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, cols []column, values ...string) {
	pdf.SetFont("Arial", "", 10)
	for i, c := range cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		pdf.CellFormat(c.width, 7, tr(v), "1", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)
}
