package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/report"
)

// ReportFilters narrows report aggregation to a slice of the asset base.
type ReportFilters struct {
	From         time.Time
	To           time.Time
	CategoryID   *int64
	DepartmentID *int64
	Status       domain.AssetStatus
}

func (f ReportFilters) assetWhere() []sq.Sqlizer {
	var where []sq.Sqlizer
	if f.CategoryID != nil {
		where = append(where, sq.Eq{"category_id": *f.CategoryID})
	}
	if f.DepartmentID != nil {
		where = append(where, sq.Eq{"department_id": *f.DepartmentID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	return where
}

// Summary aggregates the asset and borrow overview.
func (s *Store) Summary(ctx context.Context, f ReportFilters) (*report.Summary, error) {
	if err := s.markOverdue(ctx); err != nil {
		return nil, err
	}

	sum := &report.Summary{AssetsByStatus: map[string]int{}}

	qb := builder.Select("status", "COUNT(*)", "COALESCE(SUM(price), 0)").From("assets")
	for _, w := range f.assetWhere() {
		qb = qb.Where(w)
	}
	query, args, err := qb.GroupBy("status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query asset summary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		var value float64
		if err := rows.Scan(&status, &count, &value); err != nil {
			return nil, fmt.Errorf("scan asset summary: %w", err)
		}
		sum.AssetsByStatus[status] = count
		sum.TotalAssets += count
		sum.TotalValue += value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset summary: %w", err)
	}

	active, err := s.count(ctx, "borrow_records", []sq.Sqlizer{
		sq.Eq{"status": []domain.BorrowStatus{domain.BorrowStatusBorrowed, domain.BorrowStatusOverdue}},
	})
	if err != nil {
		return nil, err
	}
	overdue, err := s.count(ctx, "borrow_records", []sq.Sqlizer{
		sq.Eq{"status": domain.BorrowStatusOverdue},
	})
	if err != nil {
		return nil, err
	}
	sum.ActiveBorrows = active
	sum.OverdueBorrows = overdue
	return sum, nil
}

// BorrowTrend buckets borrow and return events per day over [From, To).
func (s *Store) BorrowTrend(ctx context.Context, f ReportFilters) (*report.BorrowTrend, error) {
	borrowed, err := s.countByDay(ctx, "borrowed_at", f)
	if err != nil {
		return nil, err
	}
	returned, err := s.countByDay(ctx, "returned_at", f)
	if err != nil {
		return nil, err
	}

	trend := &report.BorrowTrend{Points: []report.TrendPoint{}}
	for day := f.From; day.Before(f.To); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		trend.Points = append(trend.Points, report.TrendPoint{
			Date:     key,
			Borrowed: borrowed[key],
			Returned: returned[key],
		})
	}
	return trend, nil
}

func (s *Store) countByDay(ctx context.Context, column string, f ReportFilters) (map[string]int, error) {
	query, args, err := builder.Select("DATE("+column+")", "COUNT(*)").
		From("borrow_records").
		Where(sq.GtOrEq{column: f.From}).
		Where(sq.Lt{column: f.To}).
		GroupBy("DATE(" + column + ")").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trend query for %s: %w", column, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trend for %s: %w", column, err)
	}
	defer rows.Close()

	buckets := map[string]int{}
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("scan trend bucket: %w", err)
		}
		buckets[date] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend buckets: %w", err)
	}
	return buckets, nil
}

// InventoryBreakdown tallies inventory records by result over [From, To).
func (s *Store) InventoryBreakdown(ctx context.Context, f ReportFilters) (*report.InventoryBreakdown, error) {
	query, args, err := builder.Select("result", "COUNT(*)").
		From("inventory_records").
		Where(sq.GtOrEq{"checked_at": f.From}).
		Where(sq.Lt{"checked_at": f.To}).
		GroupBy("result").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build breakdown query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := &report.InventoryBreakdown{ByResult: map[string]int{}}
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		breakdown.ByResult[result] = count
		breakdown.TotalRecords += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate breakdown rows: %w", err)
	}
	return breakdown, nil
}

// ExportAssetsCSV streams the filtered asset list as CSV. The demo server
// exports CSV regardless of the requested format; format negotiation belongs
// to the real backend.
func (s *Store) ExportAssetsCSV(ctx context.Context, f ReportFilters, w io.Writer) error {
	qb := builder.Select(assetColumns...).From("assets")
	for _, where := range f.assetWhere() {
		qb = qb.Where(where)
	}
	query, args, err := qb.OrderBy("id ASC").ToSql()
	if err != nil {
		return fmt.Errorf("build export query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query export assets: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	header := []string{"id", "asset_no", "name", "category_id", "department_id",
		"status", "location", "purchase_date", "price", "remark"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return err
		}
		purchaseDate := ""
		if a.PurchaseDate != nil {
			purchaseDate = a.PurchaseDate.Format("2006-01-02")
		}
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.AssetNo,
			a.Name,
			strconv.FormatInt(a.CategoryID, 10),
			strconv.FormatInt(a.DepartmentID, 10),
			string(a.Status),
			a.Location,
			purchaseDate,
			strconv.FormatFloat(a.Price, 'f', 2, 64),
			a.Remark,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate export assets: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
