package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
)

// ToolService manages MCP tool registrations. Tool statistics are computed
// server-side and never sent in updates.
type ToolService struct {
	c *Client
}

// CreateToolRequest is the payload for registering a tool.
type CreateToolRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateToolRequest is a partial update; nil fields are left unchanged.
type UpdateToolRequest struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// List fetches one page of tools.
func (s *ToolService) List(ctx context.Context, q ListQuery) (*Page[domain.MCPTool], error) {
	return listPage[domain.MCPTool](ctx, s.c, "/api/v1/tools", q)
}

// Get fetches a single tool by id.
func (s *ToolService) Get(ctx context.Context, id int64) (*domain.MCPTool, error) {
	return getOne[domain.MCPTool](ctx, s.c, fmt.Sprintf("/api/v1/tools/%d", id))
}

// Create registers a tool and returns the stored entity.
func (s *ToolService) Create(ctx context.Context, req CreateToolRequest) (*domain.MCPTool, error) {
	return postOne[domain.MCPTool](ctx, s.c, "/api/v1/tools", req)
}

// Update applies a partial update and returns the stored entity.
func (s *ToolService) Update(ctx context.Context, id int64, req UpdateToolRequest) (*domain.MCPTool, error) {
	return putOne[domain.MCPTool](ctx, s.c, fmt.Sprintf("/api/v1/tools/%d", id), req)
}

// Delete removes a tool registration.
func (s *ToolService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/tools/%d", id), nil, nil)
	return err
}
