package mockserver

import (
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, meta, err := h.store.ListModels(r.Context(), store.ModelFilters{
		Keyword:   r.URL.Query().Get("keyword"),
		Provider:  r.URL.Query().Get("provider"),
		IsEnabled: queryBoolPtr(r, "is_enabled"),
		Sorts:     r.URL.Query().Get("sorts"),
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(models, meta))
}

func (h *Handler) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	model, err := h.store.GetModel(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, model)
}

type createModelRequest struct {
	Provider  string `json:"provider"`
	ModelName string `json:"model_name"`
	APIKey    string `json:"api_key"`
	BaseURL   string `json:"base_url"`
	IsEnabled bool   `json:"is_enabled"`
}

func (h *Handler) handleCreateModel(w http.ResponseWriter, r *http.Request) {
	var req createModelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ModelName == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "model_name is required")
		return
	}

	model, err := h.store.CreateModel(r.Context(), &domain.AIModel{
		Provider:  req.Provider,
		ModelName: req.ModelName,
		APIKey:    req.APIKey,
		BaseURL:   req.BaseURL,
		IsEnabled: req.IsEnabled,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, model)
}

type updateModelRequest struct {
	Provider  *string `json:"provider"`
	ModelName *string `json:"model_name"`
	APIKey    *string `json:"api_key"`
	BaseURL   *string `json:"base_url"`
	IsEnabled *bool   `json:"is_enabled"`
	IsDefault *bool   `json:"is_default"`
}

func (h *Handler) handleUpdateModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateModelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	model, err := h.store.UpdateModel(r.Context(), id, store.ModelPatch{
		Provider:  req.Provider,
		ModelName: req.ModelName,
		APIKey:    req.APIKey,
		BaseURL:   req.BaseURL,
		IsEnabled: req.IsEnabled,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, model)
}

func (h *Handler) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteModel(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
