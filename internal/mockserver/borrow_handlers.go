package mockserver

import (
	"net/http"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListBorrows(w http.ResponseWriter, r *http.Request) {
	records, meta, err := h.store.ListBorrows(r.Context(), store.BorrowFilters{
		Keyword:  r.URL.Query().Get("keyword"),
		Status:   domain.BorrowStatus(r.URL.Query().Get("status")),
		AssetID:  queryInt64Ptr(r, "asset_id"),
		Sorts:    r.URL.Query().Get("sorts"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(records, meta))
}

func (h *Handler) handleGetBorrow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	record, err := h.store.GetBorrow(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, record)
}

type createBorrowRequest struct {
	AssetID    int64      `json:"asset_id"`
	Borrower   string     `json:"borrower"`
	Department string     `json:"department"`
	DueAt      *time.Time `json:"due_at"`
	Remark     string     `json:"remark"`
}

func (h *Handler) handleCreateBorrow(w http.ResponseWriter, r *http.Request) {
	var req createBorrowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AssetID < 1 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "asset_id is required")
		return
	}
	if req.Borrower == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "borrower is required")
		return
	}

	record, err := h.store.CreateBorrow(r.Context(), &domain.BorrowRecord{
		AssetID:    req.AssetID,
		Borrower:   req.Borrower,
		Department: req.Department,
		DueAt:      req.DueAt,
		Remark:     req.Remark,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, record)
}

type returnBorrowRequest struct {
	Remark string `json:"remark"`
}

func (h *Handler) handleReturnBorrow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req returnBorrowRequest
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := h.store.ReturnBorrow(r.Context(), id, req.Remark)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, record)
}
