package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
)

// ModelService manages AI model configurations.
type ModelService struct {
	c *Client
}

// CreateModelRequest is the payload for creating a model configuration.
type CreateModelRequest struct {
	Provider  string `json:"provider"`
	ModelName string `json:"model_name"`
	APIKey    string `json:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	IsEnabled bool   `json:"is_enabled"`
}

// UpdateModelRequest is a partial update; nil fields are left unchanged.
// Setting IsDefault=true makes the backend clear the flag on every other
// model; the returned entity reflects the target only, so callers refresh or
// mirror the cascade locally.
type UpdateModelRequest struct {
	Provider  *string `json:"provider,omitempty"`
	ModelName *string `json:"model_name,omitempty"`
	APIKey    *string `json:"api_key,omitempty"`
	BaseURL   *string `json:"base_url,omitempty"`
	IsEnabled *bool   `json:"is_enabled,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// List fetches one page of model configurations.
func (s *ModelService) List(ctx context.Context, q ListQuery) (*Page[domain.AIModel], error) {
	return listPage[domain.AIModel](ctx, s.c, "/api/v1/models", q)
}

// Get fetches a single model configuration by id.
func (s *ModelService) Get(ctx context.Context, id int64) (*domain.AIModel, error) {
	return getOne[domain.AIModel](ctx, s.c, fmt.Sprintf("/api/v1/models/%d", id))
}

// Create creates a model configuration and returns the stored entity.
func (s *ModelService) Create(ctx context.Context, req CreateModelRequest) (*domain.AIModel, error) {
	return postOne[domain.AIModel](ctx, s.c, "/api/v1/models", req)
}

// Update applies a partial update and returns the stored entity.
func (s *ModelService) Update(ctx context.Context, id int64, req UpdateModelRequest) (*domain.AIModel, error) {
	return putOne[domain.AIModel](ctx, s.c, fmt.Sprintf("/api/v1/models/%d", id), req)
}

// Delete removes a model configuration. Agents referencing it keep their
// dangling ai_model_id; run the cross-reference guard first.
func (s *ModelService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/models/%d", id), nil, nil)
	return err
}
