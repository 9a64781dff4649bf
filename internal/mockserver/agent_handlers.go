package mockserver

import (
	"net/http"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, meta, err := h.store.ListAgents(r.Context(), store.AgentFilters{
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
	respondData(w, http.StatusOK, newPageData(agents, meta))
}

func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	agent, err := h.store.GetAgent(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, agent)
}

type createAgentRequest struct {
	Name           string  `json:"name"`
	Prompt         string  `json:"prompt"`
	AIModelID      *int64  `json:"ai_model_id"`
	Temperature    float64 `json:"temperature"`
	Tools          []int64 `json:"tools"`
	KnowledgeBases []int64 `json:"knowledge_bases"`
}

func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required")
		return
	}

	agent, err := h.store.CreateAgent(r.Context(), &domain.Agent{
		Name:           req.Name,
		Prompt:         req.Prompt,
		AIModelID:      req.AIModelID,
		Temperature:    req.Temperature,
		Tools:          req.Tools,
		KnowledgeBases: req.KnowledgeBases,
		IsActive:       true,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, agent)
}

type updateAgentRequest struct {
	Name           *string  `json:"name"`
	Prompt         *string  `json:"prompt"`
	AIModelID      *int64   `json:"ai_model_id"`
	Temperature    *float64 `json:"temperature"`
	Tools          []int64  `json:"tools"`
	KnowledgeBases []int64  `json:"knowledge_bases"`
	IsActive       *bool    `json:"is_active"`
}

func (h *Handler) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateAgentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	agent, err := h.store.UpdateAgent(r.Context(), id, store.AgentPatch{
		Name:           req.Name,
		Prompt:         req.Prompt,
		AIModelID:      req.AIModelID,
		Temperature:    req.Temperature,
		Tools:          req.Tools,
		KnowledgeBases: req.KnowledgeBases,
		IsActive:       req.IsActive,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, agent)
}

func (h *Handler) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteAgent(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
