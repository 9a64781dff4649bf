package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dootask/assetsctl/internal/domain"
)

// borrowColumns includes the joined asset name so records render without a
// second lookup.
var borrowColumns = []string{
	"b.id", "b.asset_id", "a.name", "b.borrower", "b.department", "b.status",
	"b.borrowed_at", "b.due_at", "b.returned_at", "b.remark", "b.created_at", "b.updated_at",
}

var borrowSortColumns = map[string]string{
	"id":          "b.id",
	"borrower":    "b.borrower",
	"status":      "b.status",
	"borrowed_at": "b.borrowed_at",
	"due_at":      "b.due_at",
	"created_at":  "b.created_at",
}

// BorrowFilters holds the supported filters for borrow record listing.
type BorrowFilters struct {
	Keyword  string
	Status   domain.BorrowStatus
	AssetID  *int64
	Sorts    string
	Page     int
	PageSize int
}

func scanBorrow(row interface{ Scan(...any) error }) (*domain.BorrowRecord, error) {
	var b domain.BorrowRecord
	err := row.Scan(
		&b.ID,
		&b.AssetID,
		&b.AssetName,
		&b.Borrower,
		&b.Department,
		&b.Status,
		&b.BorrowedAt,
		&b.DueAt,
		&b.ReturnedAt,
		&b.Remark,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan borrow record: %w", err)
	}
	return &b, nil
}

// ListBorrows retrieves borrow records with filters and pagination. Records
// past their due date and not yet returned are reported as overdue.
func (s *Store) ListBorrows(ctx context.Context, f BorrowFilters) ([]domain.BorrowRecord, PageMeta, error) {
	if err := s.markOverdue(ctx); err != nil {
		return nil, PageMeta{}, err
	}

	var where []sq.Sqlizer
	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		where = append(where, sq.Or{
			sq.Like{"b.borrower": pattern},
			sq.Like{"a.name": pattern},
		})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"b.status": f.Status})
	}
	if f.AssetID != nil {
		where = append(where, sq.Eq{"b.asset_id": *f.AssetID})
	}

	countQB := builder.Select("COUNT(*)").
		From("borrow_records b").
		Join("assets a ON a.id = b.asset_id")
	for _, w := range where {
		countQB = countQB.Where(w)
	}
	query, args, err := countQB.ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build borrow count query: %w", err)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, PageMeta{}, fmt.Errorf("count borrow records: %w", err)
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(borrowColumns...).
		From("borrow_records b").
		Join("assets a ON a.id = b.asset_id")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, borrowSortColumns, "b.id DESC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err = qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListBorrows query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query borrow records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.BorrowRecord, 0, limit)
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		records = append(records, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate borrow records: %w", err)
	}
	return records, meta, nil
}

// GetBorrow retrieves a borrow record by id.
func (s *Store) GetBorrow(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	query, args, err := builder.Select(borrowColumns...).
		From("borrow_records b").
		Join("assets a ON a.id = b.asset_id").
		Where(sq.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetBorrow query: %w", err)
	}
	return scanBorrow(s.db.QueryRowContext(ctx, query, args...))
}

// CreateBorrow inserts a borrow record and flips the asset to borrowed, both
// inside one transaction. Only available assets can be borrowed.
func (s *Store) CreateBorrow(ctx context.Context, b *domain.BorrowRecord) (*domain.BorrowRecord, error) {
	asset, err := s.GetAsset(ctx, b.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.Status != domain.AssetStatusAvailable {
		return nil, fmt.Errorf("%w: asset %s is %s", domain.ErrInvalidStatus, asset.AssetNo, asset.Status)
	}

	now := time.Now().UTC()
	borrowedAt := b.BorrowedAt
	if borrowedAt.IsZero() {
		borrowedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin borrow transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := builder.Insert("borrow_records").
		Columns("asset_id", "borrower", "department", "status",
			"borrowed_at", "due_at", "remark", "created_at", "updated_at").
		Values(b.AssetID, b.Borrower, b.Department, domain.BorrowStatusBorrowed,
			borrowedAt, b.DueAt, b.Remark, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateBorrow query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create borrow record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("borrow insert id: %w", err)
	}

	if err := setAssetStatus(ctx, tx, b.AssetID, domain.AssetStatusBorrowed); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit borrow transaction: %w", err)
	}
	return s.GetBorrow(ctx, id)
}

// ReturnBorrow marks a record returned and flips the asset back to available.
func (s *Store) ReturnBorrow(ctx context.Context, id int64, remark string) (*domain.BorrowRecord, error) {
	record, err := s.GetBorrow(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.BorrowStatusReturned {
		return nil, fmt.Errorf("%w: record %d already returned", domain.ErrInvalidStatus, id)
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin return transaction: %w", err)
	}
	defer tx.Rollback()

	qb := builder.Update("borrow_records").
		Set("status", domain.BorrowStatusReturned).
		Set("returned_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})
	if remark != "" {
		qb = qb.Set("remark", remark)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ReturnBorrow query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("return borrow record: %w", err)
	}

	if err := setAssetStatus(ctx, tx, record.AssetID, domain.AssetStatusAvailable); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit return transaction: %w", err)
	}
	return s.GetBorrow(ctx, id)
}

// markOverdue flips borrowed records past their due date to overdue.
func (s *Store) markOverdue(ctx context.Context) error {
	query, args, err := builder.Update("borrow_records").
		Set("status", domain.BorrowStatusOverdue).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"status": domain.BorrowStatusBorrowed}).
		Where(sq.Lt{"due_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build overdue query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark overdue records: %w", err)
	}
	return nil
}
