package domain

import "time"

// InventoryStatus represents the state of a stock-taking task.
type InventoryStatus string

const (
	InventoryStatusPending    InventoryStatus = "pending"
	InventoryStatusInProgress InventoryStatus = "in_progress"
	InventoryStatusCompleted  InventoryStatus = "completed"
)

// IsValid checks if the status is one of the allowed values.
func (s InventoryStatus) IsValid() bool {
	switch s {
	case InventoryStatusPending, InventoryStatusInProgress, InventoryStatusCompleted:
		return true
	default:
		return false
	}
}

// Label returns the display label, falling back to the raw value.
func (s InventoryStatus) Label() string {
	switch s {
	case InventoryStatusPending:
		return "Pending"
	case InventoryStatusInProgress:
		return "In progress"
	case InventoryStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// InventoryResult classifies a single counted asset within a task.
type InventoryResult string

const (
	InventoryResultNormal  InventoryResult = "normal"
	InventoryResultSurplus InventoryResult = "surplus"
	InventoryResultDeficit InventoryResult = "deficit"
	InventoryResultDamaged InventoryResult = "damaged"
)

// IsValid checks if the result is one of the allowed values.
func (r InventoryResult) IsValid() bool {
	switch r {
	case InventoryResultNormal, InventoryResultSurplus, InventoryResultDeficit, InventoryResultDamaged:
		return true
	default:
		return false
	}
}

// Label returns the display label, falling back to the raw value.
func (r InventoryResult) Label() string {
	switch r {
	case InventoryResultNormal:
		return "Normal"
	case InventoryResultSurplus:
		return "Surplus"
	case InventoryResultDeficit:
		return "Deficit"
	case InventoryResultDamaged:
		return "Damaged"
	default:
		return string(r)
	}
}

// InventoryTask represents one stock-taking round.
type InventoryTask struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Status       InventoryStatus `json:"status"`
	TotalAssets  int             `json:"total_assets"`
	CheckedCount int             `json:"checked_count"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InventoryRecord represents the counted state of one asset in a task.
type InventoryRecord struct {
	ID        int64           `json:"id"`
	TaskID    int64           `json:"task_id"`
	AssetID   int64           `json:"asset_id"`
	AssetName string          `json:"asset_name"`
	Result    InventoryResult `json:"result"`
	Remark    string          `json:"remark"`
	CheckedAt *time.Time      `json:"checked_at"`
	CreatedAt time.Time       `json:"created_at"`
}
