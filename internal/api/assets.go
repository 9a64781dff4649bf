package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
)

// AssetService manages physical assets.
type AssetService struct {
	c *Client
}

// CreateAssetRequest is the payload for registering an asset. AssetNo is
// assigned by the backend when empty.
type CreateAssetRequest struct {
	AssetNo      string     `json:"asset_no,omitempty"`
	Name         string     `json:"name"`
	CategoryID   int64      `json:"category_id"`
	DepartmentID int64      `json:"department_id"`
	Location     string     `json:"location,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	Price        float64    `json:"price,omitempty"`
	Remark       string     `json:"remark,omitempty"`
}

// UpdateAssetRequest is a partial update; nil fields are left unchanged.
// Status changes are requested here too; the stored status is whatever the
// backend returns.
type UpdateAssetRequest struct {
	Name         *string             `json:"name,omitempty"`
	CategoryID   *int64              `json:"category_id,omitempty"`
	DepartmentID *int64              `json:"department_id,omitempty"`
	Status       *domain.AssetStatus `json:"status,omitempty"`
	Location     *string             `json:"location,omitempty"`
	Price        *float64            `json:"price,omitempty"`
	Remark       *string             `json:"remark,omitempty"`
}

// List fetches one page of assets.
func (s *AssetService) List(ctx context.Context, q ListQuery) (*Page[domain.Asset], error) {
	return listPage[domain.Asset](ctx, s.c, "/api/v1/assets", q)
}

// Get fetches a single asset by id.
func (s *AssetService) Get(ctx context.Context, id int64) (*domain.Asset, error) {
	return getOne[domain.Asset](ctx, s.c, fmt.Sprintf("/api/v1/assets/%d", id))
}

// Create registers an asset and returns the stored entity.
func (s *AssetService) Create(ctx context.Context, req CreateAssetRequest) (*domain.Asset, error) {
	return postOne[domain.Asset](ctx, s.c, "/api/v1/assets", req)
}

// Update applies a partial update and returns the stored entity.
func (s *AssetService) Update(ctx context.Context, id int64, req UpdateAssetRequest) (*domain.Asset, error) {
	return putOne[domain.Asset](ctx, s.c, fmt.Sprintf("/api/v1/assets/%d", id), req)
}

// Delete removes an asset.
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/assets/%d", id), nil, nil)
	return err
}
