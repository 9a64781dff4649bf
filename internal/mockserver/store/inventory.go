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

var inventoryTaskColumns = []string{
	"id", "name", "status", "total_assets", "checked_count",
	"started_at", "completed_at", "created_at", "updated_at",
}

var inventoryTaskSortColumns = map[string]string{
	"id": "id", "name": "name", "status": "status", "created_at": "created_at",
}

// InventoryTaskFilters holds the supported filters for task listing.
type InventoryTaskFilters struct {
	Keyword  string
	Status   domain.InventoryStatus
	Sorts    string
	Page     int
	PageSize int
}

func scanInventoryTask(row interface{ Scan(...any) error }) (*domain.InventoryTask, error) {
	var t domain.InventoryTask
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Status,
		&t.TotalAssets,
		&t.CheckedCount,
		&t.StartedAt,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan inventory task: %w", err)
	}
	return &t, nil
}

// ListInventoryTasks retrieves tasks with filters and pagination.
func (s *Store) ListInventoryTasks(ctx context.Context, f InventoryTaskFilters) ([]domain.InventoryTask, PageMeta, error) {
	var where []sq.Sqlizer
	if f.Keyword != "" {
		where = append(where, sq.Like{"name": "%" + f.Keyword + "%"})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}

	total, err := s.count(ctx, "inventory_tasks", where)
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(f.Page, f.PageSize, total)

	qb := builder.Select(inventoryTaskColumns...).From("inventory_tasks")
	for _, w := range where {
		qb = qb.Where(w)
	}
	for _, clause := range orderBy(f.Sorts, inventoryTaskSortColumns, "id DESC") {
		qb = qb.OrderBy(clause)
	}
	query, args, err := qb.Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListInventoryTasks query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query inventory tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.InventoryTask, 0, limit)
	for rows.Next() {
		t, err := scanInventoryTask(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate inventory tasks: %w", err)
	}
	return tasks, meta, nil
}

// GetInventoryTask retrieves a task by id.
func (s *Store) GetInventoryTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	query, args, err := builder.Select(inventoryTaskColumns...).
		From("inventory_tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetInventoryTask query: %w", err)
	}
	return scanInventoryTask(s.db.QueryRowContext(ctx, query, args...))
}

// CreateInventoryTask inserts a pending task. The asset count is snapshotted
// at creation so later asset churn does not shift the task's denominator.
func (s *Store) CreateInventoryTask(ctx context.Context, name string) (*domain.InventoryTask, error) {
	total, err := s.count(ctx, "assets", []sq.Sqlizer{
		sq.NotEq{"status": domain.AssetStatusScrapped},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query, args, err := builder.Insert("inventory_tasks").
		Columns("name", "status", "total_assets", "checked_count", "created_at", "updated_at").
		Values(name, domain.InventoryStatusPending, total, 0, now, now).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateInventoryTask query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("create inventory task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("inventory task insert id: %w", err)
	}
	return s.GetInventoryTask(ctx, id)
}

// StartInventoryTask moves a pending task to in_progress.
func (s *Store) StartInventoryTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	task, err := s.GetInventoryTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.InventoryStatusPending {
		return nil, fmt.Errorf("%w: task %d is %s", domain.ErrInvalidStatus, id, task.Status)
	}

	now := time.Now().UTC()
	query, args, err := builder.Update("inventory_tasks").
		Set("status", domain.InventoryStatusInProgress).
		Set("started_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build StartInventoryTask query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("start inventory task: %w", err)
	}
	return s.GetInventoryTask(ctx, id)
}

// CompleteInventoryTask moves an in_progress task to completed.
func (s *Store) CompleteInventoryTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	task, err := s.GetInventoryTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.InventoryStatusInProgress {
		return nil, fmt.Errorf("%w: task %d is %s", domain.ErrInvalidStatus, id, task.Status)
	}

	now := time.Now().UTC()
	query, args, err := builder.Update("inventory_tasks").
		Set("status", domain.InventoryStatusCompleted).
		Set("completed_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CompleteInventoryTask query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("complete inventory task: %w", err)
	}
	return s.GetInventoryTask(ctx, id)
}

var inventoryRecordColumns = []string{
	"r.id", "r.task_id", "r.asset_id", "a.name", "r.result", "r.remark", "r.checked_at", "r.created_at",
}

func scanInventoryRecord(row interface{ Scan(...any) error }) (*domain.InventoryRecord, error) {
	var r domain.InventoryRecord
	err := row.Scan(
		&r.ID,
		&r.TaskID,
		&r.AssetID,
		&r.AssetName,
		&r.Result,
		&r.Remark,
		&r.CheckedAt,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan inventory record: %w", err)
	}
	return &r, nil
}

// ListInventoryRecords retrieves the records of one task with pagination.
func (s *Store) ListInventoryRecords(ctx context.Context, taskID int64, page, pageSize int) ([]domain.InventoryRecord, PageMeta, error) {
	total, err := s.count(ctx, "inventory_records", []sq.Sqlizer{sq.Eq{"task_id": taskID}})
	if err != nil {
		return nil, PageMeta{}, err
	}
	limit, offset, meta := paging(page, pageSize, total)

	query, args, err := builder.Select(inventoryRecordColumns...).
		From("inventory_records r").
		Join("assets a ON a.id = r.asset_id").
		Where(sq.Eq{"r.task_id": taskID}).
		OrderBy("r.id ASC").
		Limit(uint64(limit)).Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("build ListInventoryRecords query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("query inventory records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.InventoryRecord, 0, limit)
	for rows.Next() {
		r, err := scanInventoryRecord(rows)
		if err != nil {
			return nil, PageMeta{}, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, PageMeta{}, fmt.Errorf("iterate inventory records: %w", err)
	}
	return records, meta, nil
}

// SubmitInventoryRecord upserts the counted result of one asset within a task
// and refreshes the task's checked count. The task must be in progress.
func (s *Store) SubmitInventoryRecord(ctx context.Context, rec *domain.InventoryRecord) (*domain.InventoryRecord, error) {
	task, err := s.GetInventoryTask(ctx, rec.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.InventoryStatusInProgress {
		return nil, fmt.Errorf("%w: task %d is %s", domain.ErrInvalidStatus, task.ID, task.Status)
	}
	if !rec.Result.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, rec.Result)
	}
	if _, err := s.GetAsset(ctx, rec.AssetID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin inventory transaction: %w", err)
	}
	defer tx.Rollback()

	// Resubmitting the same asset replaces the earlier result.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_records (task_id, asset_id, result, remark, checked_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (task_id, asset_id)
		 DO UPDATE SET result = excluded.result, remark = excluded.remark, checked_at = excluded.checked_at`,
		rec.TaskID, rec.AssetID, rec.Result, rec.Remark, now, now)
	if err != nil {
		return nil, fmt.Errorf("submit inventory record: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE inventory_tasks
		 SET checked_count = (SELECT COUNT(*) FROM inventory_records WHERE task_id = ?), updated_at = ?
		 WHERE id = ?`,
		rec.TaskID, now, rec.TaskID); err != nil {
		return nil, fmt.Errorf("refresh checked count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit inventory transaction: %w", err)
	}

	query, args, err := builder.Select(inventoryRecordColumns...).
		From("inventory_records r").
		Join("assets a ON a.id = r.asset_id").
		Where(sq.Eq{"r.task_id": rec.TaskID, "r.asset_id": rec.AssetID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build record lookup query: %w", err)
	}
	return scanInventoryRecord(s.db.QueryRowContext(ctx, query, args...))
}
