package mockserver

import (
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListInventoryTasks(w http.ResponseWriter, r *http.Request) {
	tasks, meta, err := h.store.ListInventoryTasks(r.Context(), store.InventoryTaskFilters{
		Keyword:  r.URL.Query().Get("keyword"),
		Status:   domain.InventoryStatus(r.URL.Query().Get("status")),
		Sorts:    r.URL.Query().Get("sorts"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(tasks, meta))
}

func (h *Handler) handleGetInventoryTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := h.store.GetInventoryTask(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

type createInventoryTaskRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCreateInventoryTask(w http.ResponseWriter, r *http.Request) {
	var req createInventoryTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	task, err := h.store.CreateInventoryTask(r.Context(), req.Name)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, task)
}

func (h *Handler) handleStartInventoryTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := h.store.StartInventoryTask(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *Handler) handleCompleteInventoryTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := h.store.CompleteInventoryTask(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, task)
}

func (h *Handler) handleListInventoryRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	records, meta, err := h.store.ListInventoryRecords(r.Context(), id,
		queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(records, meta))
}

type submitInventoryRecordRequest struct {
	AssetID int64                  `json:"asset_id"`
	Result  domain.InventoryResult `json:"result"`
	Remark  string                 `json:"remark"`
}

func (h *Handler) handleSubmitInventoryRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req submitInventoryRecordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AssetID < 1 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "asset_id is required")
		return
	}

	record, err := h.store.SubmitInventoryRecord(r.Context(), &domain.InventoryRecord{
		TaskID:  id,
		AssetID: req.AssetID,
		Result:  req.Result,
		Remark:  req.Remark,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, record)
}
