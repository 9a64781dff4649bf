package mockserver

import (
	"net/http"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, meta, err := h.store.ListAssets(r.Context(), store.AssetFilters{
		Keyword:      r.URL.Query().Get("keyword"),
		Status:       domain.AssetStatus(r.URL.Query().Get("status")),
		CategoryID:   queryInt64Ptr(r, "category_id"),
		DepartmentID: queryInt64Ptr(r, "department_id"),
		Sorts:        r.URL.Query().Get("sorts"),
		Page:         queryInt(r, "page"),
		PageSize:     queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(assets, meta))
}

func (h *Handler) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asset, err := h.store.GetAsset(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, asset)
}

type createAssetRequest struct {
	AssetNo      string     `json:"asset_no"`
	Name         string     `json:"name"`
	CategoryID   int64      `json:"category_id"`
	DepartmentID int64      `json:"department_id"`
	Location     string     `json:"location"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Price        float64    `json:"price"`
	Remark       string     `json:"remark"`
}

func (h *Handler) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	asset, err := h.store.CreateAsset(r.Context(), &domain.Asset{
		AssetNo:      req.AssetNo,
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		DepartmentID: req.DepartmentID,
		Location:     req.Location,
		PurchaseDate: req.PurchaseDate,
		Price:        req.Price,
		Remark:       req.Remark,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, asset)
}

type updateAssetRequest struct {
	Name         *string             `json:"name"`
	CategoryID   *int64              `json:"category_id"`
	DepartmentID *int64              `json:"department_id"`
	Status       *domain.AssetStatus `json:"status"`
	Location     *string             `json:"location"`
	PurchaseDate *time.Time          `json:"purchase_date"`
	Price        *float64            `json:"price"`
	Remark       *string             `json:"remark"`
}

func (h *Handler) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateAssetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	asset, err := h.store.UpdateAsset(r.Context(), id, store.AssetPatch{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		DepartmentID: req.DepartmentID,
		Status:       req.Status,
		Location:     req.Location,
		PurchaseDate: req.PurchaseDate,
		Price:        req.Price,
		Remark:       req.Remark,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, asset)
}

func (h *Handler) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteAsset(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
