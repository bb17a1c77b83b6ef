package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
	"github.com/dukerupert/megapdv/internal/report"
	"github.com/dukerupert/megapdv/internal/telemetry"
)

// ReportService computes dashboards and period reports from the live history
type ReportService interface {
	Dashboard(ctx context.Context) (*report.Dashboard, error)
	Report(ctx context.Context, period report.Period) (*report.Report, error)

	// ExportPDF writes the period report as a PDF document to w
	ExportPDF(ctx context.Context, period report.Period, w io.Writer) error
}

type reportService struct {
	products  domain.ProductRepository
	sales     domain.SaleRepository
	metrics   *telemetry.BusinessMetrics
	storeName string
	now       func() time.Time
}

// NewReportService creates a new ReportService instance
func NewReportService(
	products domain.ProductRepository,
	sales domain.SaleRepository,
	metrics *telemetry.BusinessMetrics,
	storeName string,
) ReportService {
	return &reportService{
		products:  products,
		sales:     sales,
		metrics:   metrics,
		storeName: storeName,
		now:       time.Now,
	}
}

func (s *reportService) load(ctx context.Context) ([]domain.Sale, []domain.Product, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sales: %w", err)
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	return sales, products, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	sales, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	d := report.BuildDashboard(s.now(), sales, products)
	s.metrics.SetOutOfStock(d.Stock.OutOfStock)
	return d, nil
}

func (s *reportService) Report(ctx context.Context, period report.Period) (*report.Report, error) {
	period, err := report.ParsePeriod(string(period))
	if err != nil {
		return nil, ErrInvalidPeriod
	}

	sales, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return report.BuildReport(period, s.now(), sales, products), nil
}

func (s *reportService) ExportPDF(ctx context.Context, period report.Period, w io.Writer) error {
	r, err := s.Report(ctx, period)
	if err != nil {
		return err
	}

	_, finish := telemetry.StartSpan(ctx, "report.pdf", string(period))
	defer finish()

	return report.WritePDF(w, r, report.PDFOptions{StoreName: s.storeName})
}
