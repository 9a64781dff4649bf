package domain

import "time"

// AssetStatus represents the lifecycle state of a physical asset. Transitions
// are requested via API calls; the new status is whatever the backend returns.
type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "available"
	AssetStatusBorrowed    AssetStatus = "borrowed"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusScrapped    AssetStatus = "scrapped"
)

// IsValid checks if the status is one of the allowed values.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusBorrowed, AssetStatusMaintenance, AssetStatusScrapped:
		return true
	default:
		return false
	}
}

// Label returns the display label for the status. Unknown values fall back to
// the raw string so a backend enum addition never renders blank.
func (s AssetStatus) Label() string {
	switch s {
	case AssetStatusAvailable:
		return "Available"
	case AssetStatusBorrowed:
		return "Borrowed"
	case AssetStatusMaintenance:
		return "Under maintenance"
	case AssetStatusScrapped:
		return "Scrapped"
	default:
		return string(s)
	}
}

// Asset represents a physical asset tracked by the inventory system.
type Asset struct {
	ID           int64       `json:"id"`
	AssetNo      string      `json:"asset_no"`
	Name         string      `json:"name"`
	CategoryID   int64       `json:"category_id"`
	DepartmentID int64       `json:"department_id"`
	Status       AssetStatus `json:"status"`
	Location     string      `json:"location"`
	PurchaseDate *time.Time  `json:"purchase_date"`
	Price        float64     `json:"price"`
	Remark       string      `json:"remark"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
