package api

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/report"
)

// ExportFormat selects the file type produced by the export endpoint.
type ExportFormat string

const (
	ExportExcel ExportFormat = "excel"
	ExportCSV   ExportFormat = "csv"
	ExportPDF   ExportFormat = "pdf"
)

// IsValid checks if the format is one of the accepted values.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportExcel, ExportCSV, ExportPDF:
		return true
	default:
		return false
	}
}

// ReportQuery is the filter set forwarded to the aggregation and export
// endpoints. The zero value means "everything".
type ReportQuery struct {
	From         time.Time
	To           time.Time
	CategoryID   int64
	DepartmentID int64
	Status       string
}

// FromRange copies a resolved date range into the query.
func (q ReportQuery) FromRange(r report.Range) ReportQuery {
	q.From = r.From
	q.To = r.To
	return q
}

func (q ReportQuery) values() url.Values {
	v := url.Values{}
	if !q.From.IsZero() {
		v.Set("from", q.From.Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.Format(time.RFC3339))
	}
	if q.CategoryID != 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.DepartmentID != 0 {
		v.Set("department_id", strconv.FormatInt(q.DepartmentID, 10))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

// ReportService fetches pre-aggregated report objects and export files.
type ReportService struct {
	c *Client
}

// Summary fetches the overview aggregation for the filter set.
func (s *ReportService) Summary(ctx context.Context, q ReportQuery) (*report.Summary, error) {
	data, err := s.c.do(ctx, "GET", "/api/v1/reports/summary", q.values(), nil)
	if err != nil {
		return nil, err
	}
	out, err := decode[report.Summary](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BorrowTrend fetches the borrow/return series for the filter set.
func (s *ReportService) BorrowTrend(ctx context.Context, q ReportQuery) (*report.BorrowTrend, error) {
	data, err := s.c.do(ctx, "GET", "/api/v1/reports/borrow-trend", q.values(), nil)
	if err != nil {
		return nil, err
	}
	out, err := decode[report.BorrowTrend](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// InventoryBreakdown fetches the stock-taking result tally for the filter set.
func (s *ReportService) InventoryBreakdown(ctx context.Context, q ReportQuery) (*report.InventoryBreakdown, error) {
	data, err := s.c.do(ctx, "GET", "/api/v1/reports/inventory-breakdown", q.values(), nil)
	if err != nil {
		return nil, err
	}
	out, err := decode[report.InventoryBreakdown](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Export streams the export file for the active filter set into w and returns
// the byte count. The file itself is produced entirely by the backend.
func (s *ReportService) Export(ctx context.Context, format ExportFormat, q ReportQuery, w io.Writer) (int64, error) {
	if !format.IsValid() {
		return 0, domain.ErrInvalidFormat
	}
	v := q.values()
	v.Set("format", string(format))
	return s.c.download(ctx, "GET", "/api/v1/reports/export", v, w)
}
