package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dootask/assetsctl/internal/domain"
)

var assetColumns = []string{
	"id", "asset_no", "name", "category_id", "department_id", "status",
	"location", "purchase_date", "price", "remark", "created_at", "updated_at",
}

var assetSortColumns = map[string]string{
	"id":            "id",
	"asset_no":      "asset_no",
	"name":          "name",
	"status":        "status",
	"price":         "price",
	"purchase_date": "purchase_date",
	"created_at":    "created_at",
}

// AssetFilters holds the supported filters for asset listing.
type AssetFilters struct {
	Keyword      string
	Status       domain.AssetStatus
	CategoryID   *int64
	DepartmentID *int64
	Sorts        string
	Page         int
	PageSize     int
}

func scanAsset(row interface{ Scan(...any) error }) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(
		&a.ID,
		&a.AssetNo,
		&a.Name,
		&a.CategoryID,
		&a.DepartmentID,
		&a.Status,
		&a.Location,
		&a.PurchaseDate,
		&a.Price,
		&a.Remark,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}

// newAssetNo generates a unique asset number, e.g. "AST-1A2B3C4D".
func newAssetNo() string {
	id := uuid.New()
	return "AST-" + strings.ToUpper(id.String()[:8])
}

// ListAssets retrieves assets with filters and pagination.
func (s *Store) ListAssets(ctx context.Context, f AssetFilters) ([]domain.Asset, PageMeta, error) {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		where = append(where, sq.Or{
			sq.Like{"name": pattern},
			sq.Like{"asset_no": pattern},
			sq.Like{"location": pattern},
		})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.CategoryID != nil {
		where = append(where, sq.Eq{"category_id": *f.CategoryID})
	}
	if f.DepartmentID != nil {
		where = append(where, sq.Eq{"department_id": *f.DepartmentID})
	}

	total, err := s.count(ctx, "assets", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(assetColumns...).From("assets")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, assetSortColumns, "id ASC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListAssets query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]domain.Asset, 0, limit)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, meta, nil
}

// GetAsset retrieves an asset by id.
func (s *Store) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	query, args, err := builder.Select(assetColumns...).From("assets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetAsset query: %w", err)
	}
	return scanAsset(s.db.QueryRowContext(ctx, query, args...))
}

// CreateAsset inserts an asset and returns the stored row. When AssetNo is
// empty a unique one is generated.
func (s *Store) CreateAsset(ctx context.Context, a *domain.Asset) (*domain.Asset, error) {
	now := time.Now().UTC()
	assetNo := a.AssetNo
	if assetNo == "" {
		assetNo = newAssetNo()
	}
	status := a.Status
	if status == "" {
		status = domain.AssetStatusAvailable
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	query, args, err := builder.Insert("assets").
		Columns("asset_no", "name", "category_id", "department_id", "status",
			"location", "purchase_date", "price", "remark", "created_at", "updated_at").
		Values(assetNo, a.Name, a.CategoryID, a.DepartmentID, status,
			a.Location, a.PurchaseDate, a.Price, a.Remark, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateAsset query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("asset insert id: %w", err)
	}
	return s.GetAsset(ctx, id)
}

// AssetPatch is a partial update; nil fields are left unchanged.
type AssetPatch struct {
	Name         *string
	CategoryID   *int64
	DepartmentID *int64
	Status       *domain.AssetStatus
	Location     *string
	PurchaseDate *time.Time
	Price        *float64
	Remark       *string
}

// UpdateAsset applies a patch and returns the stored row.
func (s *Store) UpdateAsset(ctx context.Context, id int64, p AssetPatch) (*domain.Asset, error) {
	if p.Status != nil && !p.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *p.Status)
	}

	qb := builder.Update("assets").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})
	if p.Name != nil {
		qb = qb.Set("name", *p.Name)
	}
	if p.CategoryID != nil {
		qb = qb.Set("category_id", *p.CategoryID)
	}
	if p.DepartmentID != nil {
		qb = qb.Set("department_id", *p.DepartmentID)
	}
	if p.Status != nil {
		qb = qb.Set("status", *p.Status)
	}
	if p.Location != nil {
		qb = qb.Set("location", *p.Location)
	}
	if p.PurchaseDate != nil {
		qb = qb.Set("purchase_date", *p.PurchaseDate)
	}
	if p.Price != nil {
		qb = qb.Set("price", *p.Price)
	}
	if p.Remark != nil {
		qb = qb.Set("remark", *p.Remark)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateAsset query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrAssetNotFound
	}
	return s.GetAsset(ctx, id)
}

// DeleteAsset removes an asset.
func (s *Store) DeleteAsset(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

// setAssetStatus updates only the status column inside a transaction.
func setAssetStatus(ctx context.Context, tx *sql.Tx, id int64, status domain.AssetStatus) error {
	query, args, err := builder.Update("assets").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build asset status query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set asset status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
