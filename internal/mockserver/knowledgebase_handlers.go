package mockserver

import (
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListKnowledgeBases(w http.ResponseWriter, r *http.Request) {
	kbs, meta, err := h.store.ListKnowledgeBases(r.Context(), store.KnowledgeBaseFilters{
		Keyword:  r.URL.Query().Get("keyword"),
		IsActive: queryBoolPtr(r, "is_active"),
		Sorts:    r.URL.Query().Get("sorts"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(kbs, meta))
}

func (h *Handler) handleGetKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	kb, err := h.store.GetKnowledgeBase(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, kb)
}

type createKnowledgeBaseRequest struct {
	Name           string `json:"name"`
	EmbeddingModel string `json:"embedding_model"`
}

func (h *Handler) handleCreateKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	var req createKnowledgeBaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	kb, err := h.store.CreateKnowledgeBase(r.Context(), &domain.KnowledgeBase{
		Name:           req.Name,
		EmbeddingModel: req.EmbeddingModel,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, kb)
}

type updateKnowledgeBaseRequest struct {
	Name           *string `json:"name"`
	EmbeddingModel *string `json:"embedding_model"`
	IsActive       *bool   `json:"is_active"`
}

func (h *Handler) handleUpdateKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateKnowledgeBaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	kb, err := h.store.UpdateKnowledgeBase(r.Context(), id, store.KnowledgeBasePatch{
		Name:           req.Name,
		EmbeddingModel: req.EmbeddingModel,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, kb)
}

func (h *Handler) handleDeleteKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteKnowledgeBase(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
