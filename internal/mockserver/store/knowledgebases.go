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

var kbColumns = []string{
	"id", "name", "embedding_model", "documents_count", "is_active", "created_at", "updated_at",
}

var kbSortColumns = map[string]string{
	"id": "id", "name": "name", "documents_count": "documents_count", "created_at": "created_at",
}

// KnowledgeBaseFilters holds the supported filters for knowledge base listing.
type KnowledgeBaseFilters struct {
	Keyword  string
	IsActive *bool
	Sorts    string
	Page     int
	PageSize int
}

func scanKnowledgeBase(row interface{ Scan(...any) error }) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	err := row.Scan(
		&kb.ID,
		&kb.Name,
		&kb.EmbeddingModel,
		&kb.DocumentsCount,
		&kb.IsActive,
		&kb.CreatedAt,
		&kb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan knowledge base: %w", err)
	}
	return &kb, nil
}

// ListKnowledgeBases retrieves knowledge bases with filters and pagination.
func (s *Store) ListKnowledgeBases(ctx context.Context, f KnowledgeBaseFilters) ([]domain.KnowledgeBase, PageMeta, error) {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		where = append(where, sq.Like{"name": "%" + f.Keyword + "%"})
	}
	if f.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *f.IsActive})
	}

	total, err := s.count(ctx, "knowledge_bases", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(kbColumns...).From("knowledge_bases")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, kbSortColumns, "id ASC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListKnowledgeBases query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query knowledge bases: %w", err)
	}
	defer rows.Close()

	kbs := make([]domain.KnowledgeBase, 0, limit)
	for rows.Next() {
		kb, err := scanKnowledgeBase(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		kbs = append(kbs, *kb)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate knowledge bases: %w", err)
	}
	return kbs, meta, nil
}

// GetKnowledgeBase retrieves a knowledge base by id.
func (s *Store) GetKnowledgeBase(ctx context.Context, id int64) (*domain.KnowledgeBase, error) {
	query, args, err := builder.Select(kbColumns...).From("knowledge_bases").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetKnowledgeBase query: %w", err)
	}
	return scanKnowledgeBase(s.db.QueryRowContext(ctx, query, args...))
}

// CreateKnowledgeBase inserts a knowledge base and returns the stored row.
func (s *Store) CreateKnowledgeBase(ctx context.Context, kb *domain.KnowledgeBase) (*domain.KnowledgeBase, error) {
	now := time.Now().UTC()
	query, args, err := builder.Insert("knowledge_bases").
		Columns("name", "embedding_model", "documents_count", "is_active", "created_at", "updated_at").
		Values(kb.Name, kb.EmbeddingModel, 0, true, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateKnowledgeBase query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create knowledge base: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("knowledge base insert id: %w", err)
	}
	return s.GetKnowledgeBase(ctx, id)
}

// KnowledgeBasePatch is a partial update; nil fields are left unchanged.
type KnowledgeBasePatch struct {
	Name           *string
	EmbeddingModel *string
	IsActive       *bool
}

// UpdateKnowledgeBase applies a patch and returns the stored row.
func (s *Store) UpdateKnowledgeBase(ctx context.Context, id int64, p KnowledgeBasePatch) (*domain.KnowledgeBase, error) {
	qb := builder.Update("knowledge_bases").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})
	if p.Name != nil {
		qb = qb.Set("name", *p.Name)
	}
	if p.EmbeddingModel != nil {
		qb = qb.Set("embedding_model", *p.EmbeddingModel)
	}
	if p.IsActive != nil {
		qb = qb.Set("is_active", *p.IsActive)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateKnowledgeBase query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update knowledge base: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetKnowledgeBase(ctx, id)
}

// DeleteKnowledgeBase removes a knowledge base.
func (s *Store) DeleteKnowledgeBase(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM knowledge_bases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete knowledge base: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
