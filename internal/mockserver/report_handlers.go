package mockserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

// reportFilters parses the shared report query parameters. An absent range
// defaults to the last 30 days.
func reportFilters(r *http.Request) store.ReportFilters {
	f := store.ReportFilters{
		CategoryID:   queryInt64Ptr(r, "category_id"),
		DepartmentID: queryInt64Ptr(r, "department_id"),
		Status:       domain.AssetStatus(r.URL.Query().Get("status")),
	}
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		f.From = from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		f.To = to
	}
	if f.From.IsZero() || f.To.IsZero() {
		now := time.Now().UTC()
		f.To = now
		f.From = now.AddDate(0, 0, -30)
	}
	return f
}

func (h *Handler) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Summary(r.Context(), reportFilters(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, summary)
}

func (h *Handler) handleReportBorrowTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.store.BorrowTrend(r.Context(), reportFilters(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, trend)
}

func (h *Handler) handleReportInventoryBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.store.InventoryBreakdown(r.Context(), reportFilters(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, breakdown)
}

// handleReportExport streams the filtered asset list as a file download. The
// demo backend only produces CSV; other formats are rejected up front.
func (h *Handler) handleReportExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			fmt.Sprintf("unsupported export format %q", format))
		return
	}

	filename := "assets-" + time.Now().UTC().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.store.ExportAssetsCSV(r.Context(), reportFilters(r), w); err != nil {
		// Headers are already on the wire; all we can do is log.
		slog.Error("asset export failed", "error", err)
	}
}
