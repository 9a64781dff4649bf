package api

import (
	"context"
	"fmt"

	"github.com/dootask/assetsctl/internal/domain"
)

// InventoryService manages stock-taking tasks and their per-asset records.
type InventoryService struct {
	c *Client
}

// CreateInventoryTaskRequest is the payload for opening a stock-taking round.
type CreateInventoryTaskRequest struct {
	Name string `json:"name"`
}

// SubmitInventoryRecordRequest is the payload for counting one asset.
type SubmitInventoryRecordRequest struct {
	AssetID int64                  `json:"asset_id"`
	Result  domain.InventoryResult `json:"result"`
	Remark  string                 `json:"remark,omitempty"`
}

// ListTasks fetches one page of inventory tasks.
func (s *InventoryService) ListTasks(ctx context.Context, q ListQuery) (*Page[domain.InventoryTask], error) {
	return listPage[domain.InventoryTask](ctx, s.c, "/api/v1/inventory/tasks", q)
}

// GetTask fetches a single inventory task by id.
func (s *InventoryService) GetTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	return getOne[domain.InventoryTask](ctx, s.c, fmt.Sprintf("/api/v1/inventory/tasks/%d", id))
}

// CreateTask opens a stock-taking round covering all current assets.
func (s *InventoryService) CreateTask(ctx context.Context, req CreateInventoryTaskRequest) (*domain.InventoryTask, error) {
	return postOne[domain.InventoryTask](ctx, s.c, "/api/v1/inventory/tasks", req)
}

// StartTask requests the pending task be moved to in_progress.
func (s *InventoryService) StartTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	return postOne[domain.InventoryTask](ctx, s.c, fmt.Sprintf("/api/v1/inventory/tasks/%d/start", id), nil)
}

// CompleteTask requests the in_progress task be closed.
func (s *InventoryService) CompleteTask(ctx context.Context, id int64) (*domain.InventoryTask, error) {
	return postOne[domain.InventoryTask](ctx, s.c, fmt.Sprintf("/api/v1/inventory/tasks/%d/complete", id), nil)
}

// ListRecords fetches one page of per-asset records for a task.
func (s *InventoryService) ListRecords(ctx context.Context, taskID int64, q ListQuery) (*Page[domain.InventoryRecord], error) {
	return listPage[domain.InventoryRecord](ctx, s.c, fmt.Sprintf("/api/v1/inventory/tasks/%d/records", taskID), q)
}

// SubmitRecord records the counted state of one asset within a task.
func (s *InventoryService) SubmitRecord(ctx context.Context, taskID int64, req SubmitInventoryRecordRequest) (*domain.InventoryRecord, error) {
	return postOne[domain.InventoryRecord](ctx, s.c, fmt.Sprintf("/api/v1/inventory/tasks/%d/records", taskID), req)
}
