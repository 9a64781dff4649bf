package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dootask/assetsctl/internal/domain"
)

var toolColumns = []string{
	"id", "name", "category", "type", "is_active", "permissions",
	"call_count", "success_count", "created_at", "updated_at",
}

var toolSortColumns = map[string]string{
	"id": "id", "name": "name", "category": "category", "created_at": "created_at",
}

// ToolFilters holds the supported filters for tool listing.
type ToolFilters struct {
	Keyword  string
	Category string
	IsActive *bool
	Sorts    string
	Page     int
	PageSize int
}

func scanTool(row interface{ Scan(...any) error }) (*domain.MCPTool, error) {
	var (
		t     domain.MCPTool
		perms string
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Category,
		&t.Type,
		&t.IsActive,
		&perms,
		&t.Statistics.CallCount,
		&t.Statistics.SuccessCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan tool: %w", err)
	}

	_ = json.Unmarshal([]byte(perms), &t.Permissions)
	if t.Statistics.CallCount > 0 {
		t.Statistics.SuccessRate = float64(t.Statistics.SuccessCount) / float64(t.Statistics.CallCount) * 100
	}
	return &t, nil
}

// ListTools retrieves tools with filters and pagination.
func (s *Store) ListTools(ctx context.Context, f ToolFilters) ([]domain.MCPTool, PageMeta, error) {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		where = append(where, sq.Like{"name": "%" + f.Keyword + "%"})
	}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *f.IsActive})
	}

	total, err := s.count(ctx, "mcp_tools", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(toolColumns...).From("mcp_tools")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, toolSortColumns, "id ASC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListTools query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query tools: %w", err)
	}
	defer rows.Close()

	tools := make([]domain.MCPTool, 0, limit)
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		tools = append(tools, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate tools: %w", err)
	}
	return tools, meta, nil
}

// GetTool retrieves a tool by id.
func (s *Store) GetTool(ctx context.Context, id int64) (*domain.MCPTool, error) {
	query, args, err := builder.Select(toolColumns...).From("mcp_tools").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetTool query: %w", err)
	}
	return scanTool(s.db.QueryRowContext(ctx, query, args...))
}

// CreateTool inserts a tool and returns the stored row.
func (s *Store) CreateTool(ctx context.Context, t *domain.MCPTool) (*domain.MCPTool, error) {
	now := time.Now().UTC()
	perms, _ := json.Marshal(t.Permissions)

	query, args, err := builder.Insert("mcp_tools").
		Columns("name", "category", "type", "is_active", "permissions", "call_count", "success_count", "created_at", "updated_at").
		Values(t.Name, t.Category, t.Type, true, string(perms), 0, 0, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateTool query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("tool insert id: %w", err)
	}
	return s.GetTool(ctx, id)
}

// ToolPatch is a partial tool update; nil fields are left unchanged.
// Statistics cannot be patched; they are server-computed.
type ToolPatch struct {
	Name        *string
	Category    *string
	Type        *string
	Permissions []string
	IsActive    *bool
}

// UpdateTool applies a patch and returns the stored row.
func (s *Store) UpdateTool(ctx context.Context, id int64, p ToolPatch) (*domain.MCPTool, error) {
	qb := builder.Update("mcp_tools").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})
	if p.Name != nil {
		qb = qb.Set("name", *p.Name)
	}
	if p.Category != nil {
		qb = qb.Set("category", *p.Category)
	}
	if p.Type != nil {
		qb = qb.Set("type", *p.Type)
	}
	if p.Permissions != nil {
		raw, _ := json.Marshal(p.Permissions)
		qb = qb.Set("permissions", string(raw))
	}
	if p.IsActive != nil {
		qb = qb.Set("is_active", *p.IsActive)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateTool query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update tool: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetTool(ctx, id)
}

// DeleteTool removes a tool registration.
func (s *Store) DeleteTool(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mcp_tools WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
