package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
)

// KnowledgeBaseService manages knowledge bases.
type KnowledgeBaseService struct {
	c *Client
}

// CreateKnowledgeBaseRequest is the payload for creating a knowledge base.
type CreateKnowledgeBaseRequest struct {
	Name           string `json:"name"`
	EmbeddingModel string `json:"embedding_model"`
}

// UpdateKnowledgeBaseRequest is a partial update; nil fields are left
// unchanged.
type UpdateKnowledgeBaseRequest struct {
	Name           *string `json:"name,omitempty"`
	EmbeddingModel *string `json:"embedding_model,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// List fetches one page of knowledge bases.
func (s *KnowledgeBaseService) List(ctx context.Context, q ListQuery) (*Page[domain.KnowledgeBase], error) {
	return listPage[domain.KnowledgeBase](ctx, s.c, "/api/v1/knowledge-bases", q)
}

// Get fetches a single knowledge base by id.
func (s *KnowledgeBaseService) Get(ctx context.Context, id int64) (*domain.KnowledgeBase, error) {
	return getOne[domain.KnowledgeBase](ctx, s.c, fmt.Sprintf("/api/v1/knowledge-bases/%d", id))
}

// Create creates a knowledge base and returns the stored entity.
func (s *KnowledgeBaseService) Create(ctx context.Context, req CreateKnowledgeBaseRequest) (*domain.KnowledgeBase, error) {
	return postOne[domain.KnowledgeBase](ctx, s.c, "/api/v1/knowledge-bases", req)
}

// Update applies a partial update and returns the stored entity.
func (s *KnowledgeBaseService) Update(ctx context.Context, id int64, req UpdateKnowledgeBaseRequest) (*domain.KnowledgeBase, error) {
	return putOne[domain.KnowledgeBase](ctx, s.c, fmt.Sprintf("/api/v1/knowledge-bases/%d", id), req)
}

// Delete removes a knowledge base.
func (s *KnowledgeBaseService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/knowledge-bases/%d", id), nil, nil)
	return err
}
