package api

import (
	"context"
	"fmt"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
)

// BorrowService manages borrow records.
type BorrowService struct {
	c *Client
}

// CreateBorrowRequest is the payload for lending an asset out.
type CreateBorrowRequest struct {
	AssetID    int64      `json:"asset_id"`
	Borrower   string     `json:"borrower"`
	Department string     `json:"department,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	Remark     string     `json:"remark,omitempty"`
}

// ReturnBorrowRequest is the payload for returning a borrowed asset.
type ReturnBorrowRequest struct {
	Remark string `json:"remark,omitempty"`
}

// List fetches one page of borrow records.
func (s *BorrowService) List(ctx context.Context, q ListQuery) (*Page[domain.BorrowRecord], error) {
	return listPage[domain.BorrowRecord](ctx, s.c, "/api/v1/borrows", q)
}

// Get fetches a single borrow record by id.
func (s *BorrowService) Get(ctx context.Context, id int64) (*domain.BorrowRecord, error) {
	return getOne[domain.BorrowRecord](ctx, s.c, fmt.Sprintf("/api/v1/borrows/%d", id))
}

// Create lends an asset out and returns the stored record. The backend flips
// the asset status to borrowed as a side effect.
func (s *BorrowService) Create(ctx context.Context, req CreateBorrowRequest) (*domain.BorrowRecord, error) {
	return postOne[domain.BorrowRecord](ctx, s.c, "/api/v1/borrows", req)
}

// Return marks a borrow record returned and returns the stored record.
func (s *BorrowService) Return(ctx context.Context, id int64, req ReturnBorrowRequest) (*domain.BorrowRecord, error) {
	return postOne[domain.BorrowRecord](ctx, s.c, fmt.Sprintf("/api/v1/borrows/%d/return", id), req)
}
