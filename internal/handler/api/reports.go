package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/report"
	"github.com/dukerupert/megapdv/internal/service"
)

// ReportHandler handles the dashboard and report routes
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard handles GET /api/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Dashboard(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, d)
}

// Report handles GET /api/reports?period=
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Report(r.Context(), report.Period(r.URL.Query().Get("period")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, rep)
}

// ExportPDF handles GET /api/reports/export.pdf?period=
//
// The document is rendered into memory first so a failure can still be
// answered with a JSON error.
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	period, err := report.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.reports.ExportPDF(r.Context(), period, &buf); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="relatorio-%s.pdf"`, period))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
