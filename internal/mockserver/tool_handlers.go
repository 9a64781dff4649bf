package mockserver

import (
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, meta, err := h.store.ListTools(r.Context(), store.ToolFilters{
		Keyword:  r.URL.Query().Get("keyword"),
		Category: r.URL.Query().Get("category"),
		IsActive: queryBoolPtr(r, "is_active"),
		Sorts:    r.URL.Query().Get("sorts"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, newPageData(tools, meta))
}

func (h *Handler) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tool, err := h.store.GetTool(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, tool)
}

type createToolRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	tool, err := h.store.CreateTool(r.Context(), &domain.MCPTool{
		Name:        req.Name,
		Category:    req.Category,
		Type:        req.Type,
		Permissions: req.Permissions,
		IsActive:    true,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, tool)
}

type updateToolRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type"`
	Permissions []string `json:"permissions"`
	IsActive    *bool    `json:"is_active"`
}

func (h *Handler) handleUpdateTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateToolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tool, err := h.store.UpdateTool(r.Context(), id, store.ToolPatch{
		Name:        req.Name,
		Category:    req.Category,
		Type:        req.Type,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, tool)
}

func (h *Handler) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteTool(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
