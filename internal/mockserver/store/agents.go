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

var agentColumns = []string{
	"id", "name", "prompt", "ai_model_id", "temperature", "tools",
	"knowledge_bases", "is_active", "created_at", "updated_at",
}

var agentSortColumns = map[string]string{
	"id": "id", "name": "name", "created_at": "created_at", "updated_at": "updated_at",
}

// AgentFilters holds the supported filters for agent listing.
type AgentFilters struct {
	Keyword  string
	IsActive *bool
	Sorts    string
	Page     int
	PageSize int
}

func scanAgent(row interface{ Scan(...any) error }) (*domain.Agent, error) {
	var (
		a     domain.Agent
		tools string
		kbs   string
	)
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Prompt,
		&a.AIModelID,
		&a.Temperature,
		&tools,
		&kbs,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}

	// Reference columns are stored as JSON text; IDList tolerates whatever is
	// in there, including legacy garbage.
	_ = json.Unmarshal([]byte(tools), &a.Tools)
	_ = json.Unmarshal([]byte(kbs), &a.KnowledgeBases)
	return &a, nil
}

func (s *Store) agentWhere(f AgentFilters) []sq.Sqlizer {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		where = append(where, sq.Like{"name": "%" + f.Keyword + "%"})
	}
	if f.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *f.IsActive})
	}
	return where
}

// ListAgents retrieves agents with filters and pagination.
func (s *Store) ListAgents(ctx context.Context, f AgentFilters) ([]domain.Agent, PageMeta, error) {
	where := s.agentWhere(f)

	total, err := s.count(ctx, "agents", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(agentColumns...).From("agents")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, agentSortColumns, "id ASC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListAgents query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	agents := make([]domain.Agent, 0, limit)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		agents = append(agents, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, meta, nil
}

// GetAgent retrieves an agent by id.
func (s *Store) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	query, args, err := builder.Select(agentColumns...).From("agents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetAgent query: %w", err)
	}
	return scanAgent(s.db.QueryRowContext(ctx, query, args...))
}

// CreateAgent inserts an agent and returns the stored row.
func (s *Store) CreateAgent(ctx context.Context, a *domain.Agent) (*domain.Agent, error) {
	now := time.Now().UTC()
	tools, _ := json.Marshal(a.Tools)
	kbs, _ := json.Marshal(a.KnowledgeBases)

	query, args, err := builder.Insert("agents").
		Columns("name", "prompt", "ai_model_id", "temperature", "tools", "knowledge_bases", "is_active", "created_at", "updated_at").
		Values(a.Name, a.Prompt, a.AIModelID, a.Temperature, string(tools), string(kbs), a.IsActive, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateAgent query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("agent insert id: %w", err)
	}
	return s.GetAgent(ctx, id)
}

// AgentPatch is a partial agent update; nil fields are left unchanged.
type AgentPatch struct {
	Name           *string
	Prompt         *string
	AIModelID      *int64
	Temperature    *float64
	Tools          []int64
	KnowledgeBases []int64
	IsActive       *bool
}

// UpdateAgent applies a patch and returns the stored row.
func (s *Store) UpdateAgent(ctx context.Context, id int64, p AgentPatch) (*domain.Agent, error) {
	qb := builder.Update("agents").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})
	if p.Name != nil {
		qb = qb.Set("name", *p.Name)
	}
	if p.Prompt != nil {
		qb = qb.Set("prompt", *p.Prompt)
	}
	if p.AIModelID != nil {
		qb = qb.Set("ai_model_id", *p.AIModelID)
	}
	if p.Temperature != nil {
		qb = qb.Set("temperature", *p.Temperature)
	}
	if p.Tools != nil {
		raw, _ := json.Marshal(p.Tools)
		qb = qb.Set("tools", string(raw))
	}
	if p.KnowledgeBases != nil {
		raw, _ := json.Marshal(p.KnowledgeBases)
		qb = qb.Set("knowledge_bases", string(raw))
	}
	if p.IsActive != nil {
		qb = qb.Set("is_active", *p.IsActive)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateAgent query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrAgentNotFound
	}
	return s.GetAgent(ctx, id)
}

// DeleteAgent removes an agent.
func (s *Store) DeleteAgent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM agents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

// SetAgentReferencesRaw overwrites the stored reference columns with raw text.
// Seeding uses this to plant legacy string-encoded rows.
func (s *Store) SetAgentReferencesRaw(ctx context.Context, id int64, tools, kbs string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE agents SET tools = ?, knowledge_bases = ? WHERE id = ?", tools, kbs, id)
	if err != nil {
		return fmt.Errorf("set agent references: %w", err)
	}
	return nil
}
