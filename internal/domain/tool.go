package domain

import "time"

// MCPTool represents a tool exposed to agents over MCP.
type MCPTool struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Type        string         `json:"type"`
	IsActive    bool           `json:"is_active"`
	Permissions []string       `json:"permissions"`
	Statistics  ToolStatistics `json:"statistics"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToolStatistics holds server-computed call counters. Read-only on the
// client; updates sent for a tool never include them.
type ToolStatistics struct {
	CallCount    int64   `json:"call_count"`
	SuccessCount int64   `json:"success_count"`
	SuccessRate  float64 `json:"success_rate"`
}
