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

var modelColumns = []string{
	"id", "provider", "model_name", "api_key", "base_url", "is_enabled",
	"is_default", "created_at", "updated_at",
}

var modelSortColumns = map[string]string{
	"id": "id", "provider": "provider", "model_name": "model_name", "created_at": "created_at",
}

// ModelFilters holds the supported filters for model listing.
type ModelFilters struct {
	Keyword   string
	Provider  string
	IsEnabled *bool
	Sorts     string
	Page      int
	PageSize  int
}

func scanModel(row interface{ Scan(...any) error }) (*domain.AIModel, error) {
	var m domain.AIModel
	err := row.Scan(
		&m.ID,
		&m.Provider,
		&m.ModelName,
		&m.APIKey,
		&m.BaseURL,
		&m.IsEnabled,
		&m.IsDefault,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan model: %w", err)
	}
	return &m, nil
}

// ListModels retrieves model configurations with filters and pagination.
func (s *Store) ListModels(ctx context.Context, f ModelFilters) ([]domain.AIModel, PageMeta, error) {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		where = append(where, sq.Like{"model_name": "%" + f.Keyword + "%"})
	}
	if f.Provider != "" {
		where = append(where, sq.Eq{"provider": f.Provider})
	}
	if f.IsEnabled != nil {
		where = append(where, sq.Eq{"is_enabled": *f.IsEnabled})
	}

	total, err := s.count(ctx, "ai_models", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(modelColumns...).From("ai_models")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, modelSortColumns, "id ASC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListModels query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	models := make([]domain.AIModel, 0, limit)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		models = append(models, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate models: %w", err)
	}
	return models, meta, nil
}

// GetModel retrieves a model configuration by id.
func (s *Store) GetModel(ctx context.Context, id int64) (*domain.AIModel, error) {
	query, args, err := builder.Select(modelColumns...).From("ai_models").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetModel query: %w", err)
	}
	return scanModel(s.db.QueryRowContext(ctx, query, args...))
}

// CreateModel inserts a model configuration and returns the stored row.
func (s *Store) CreateModel(ctx context.Context, m *domain.AIModel) (*domain.AIModel, error) {
	now := time.Now().UTC()
	query, args, err := builder.Insert("ai_models").
		Columns("provider", "model_name", "api_key", "base_url", "is_enabled", "is_default", "created_at", "updated_at").
		Values(m.Provider, m.ModelName, m.APIKey, m.BaseURL, m.IsEnabled, false, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateModel query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("model insert id: %w", err)
	}
	return s.GetModel(ctx, id)
}

// ModelPatch is a partial model update; nil fields are left unchanged.
type ModelPatch struct {
	Provider  *string
	ModelName *string
	APIKey    *string
	BaseURL   *string
	IsEnabled *bool
	IsDefault *bool
}

// UpdateModel applies a patch and returns the stored row. Setting
// IsDefault=true clears the flag on every other model in the same
// transaction so at most one default exists.
func (s *Store) UpdateModel(ctx context.Context, id int64, p ModelPatch) (*domain.AIModel, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if p.IsDefault != nil && *p.IsDefault {
		if _, err := tx.ExecContext(ctx, "UPDATE ai_models SET is_default = 0 WHERE id <> ?", id); err != nil {
			return nil, fmt.Errorf("clear default models: %w", err)
		}
	}

	qb := builder.Update("ai_models").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})
	if p.Provider != nil {
		qb = qb.Set("provider", *p.Provider)
	}
	if p.ModelName != nil {
		qb = qb.Set("model_name", *p.ModelName)
	}
	if p.APIKey != nil {
		qb = qb.Set("api_key", *p.APIKey)
	}
	if p.BaseURL != nil {
		qb = qb.Set("base_url", *p.BaseURL)
	}
	if p.IsEnabled != nil {
		qb = qb.Set("is_enabled", *p.IsEnabled)
	}
	if p.IsDefault != nil {
		qb = qb.Set("is_default", *p.IsDefault)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateModel query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return s.GetModel(ctx, id)
}

// DeleteModel removes a model configuration. Agents keep whatever
// ai_model_id they had; dangling references are the console's problem to
// warn about, not the store's to fix.
func (s *Store) DeleteModel(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ai_models WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
