package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
)

// AgentService manages agent configurations.
type AgentService struct {
	c *Client
}

// CreateAgentRequest is the payload for creating an agent.
type CreateAgentRequest struct {
	Name           string  `json:"name"`
	Prompt         string  `json:"prompt"`
	AIModelID      *int64  `json:"ai_model_id,omitempty"`
	Temperature    float64 `json:"temperature"`
	Tools          []int64 `json:"tools,omitempty"`
	KnowledgeBases []int64 `json:"knowledge_bases,omitempty"`
}

// UpdateAgentRequest is a partial update; nil fields are left unchanged.
type UpdateAgentRequest struct {
	Name           *string  `json:"name,omitempty"`
	Prompt         *string  `json:"prompt,omitempty"`
	AIModelID      *int64   `json:"ai_model_id,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Tools          []int64  `json:"tools,omitempty"`
	KnowledgeBases []int64  `json:"knowledge_bases,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// List fetches one page of agents.
func (s *AgentService) List(ctx context.Context, q ListQuery) (*Page[domain.Agent], error) {
	return listPage[domain.Agent](ctx, s.c, "/api/v1/agents", q)
}

// All fetches every agent across all pages. The cross-reference guard relies
// on this to avoid false negatives from pagination.
func (s *AgentService) All(ctx context.Context) ([]domain.Agent, error) {
	return listAll[domain.Agent](ctx, s.c, "/api/v1/agents", ListQuery{})
}

// Get fetches a single agent by id.
func (s *AgentService) Get(ctx context.Context, id int64) (*domain.Agent, error) {
	return getOne[domain.Agent](ctx, s.c, fmt.Sprintf("/api/v1/agents/%d", id))
}

// Create creates an agent and returns the stored entity.
func (s *AgentService) Create(ctx context.Context, req CreateAgentRequest) (*domain.Agent, error) {
	return postOne[domain.Agent](ctx, s.c, "/api/v1/agents", req)
}

// Update applies a partial update and returns the stored entity.
func (s *AgentService) Update(ctx context.Context, id int64, req UpdateAgentRequest) (*domain.Agent, error) {
	return putOne[domain.Agent](ctx, s.c, fmt.Sprintf("/api/v1/agents/%d", id), req)
}

// Delete removes an agent.
func (s *AgentService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/agents/%d", id), nil, nil)
	return err
}
