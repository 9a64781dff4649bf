// Package mockserver is a self-contained stand-in for the asset backend. It
// serves the same routes and response envelope against a local sqlite
// database so the console can be exercised without a real deployment.
package mockserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	token string
}

// New creates a Handler. When token is non-empty every API route requires a
// matching bearer token.
func New(st *store.Store, token string) *Handler {
	return &Handler{store: st, token: token}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	routes := map[string]http.HandlerFunc{
		"GET /api/v1/agents":         h.handleListAgents,
		"POST /api/v1/agents":        h.handleCreateAgent,
		"GET /api/v1/agents/{id}":    h.handleGetAgent,
		"PUT /api/v1/agents/{id}":    h.handleUpdateAgent,
		"DELETE /api/v1/agents/{id}": h.handleDeleteAgent,

		"GET /api/v1/models":         h.handleListModels,
		"POST /api/v1/models":        h.handleCreateModel,
		"GET /api/v1/models/{id}":    h.handleGetModel,
		"PUT /api/v1/models/{id}":    h.handleUpdateModel,
		"DELETE /api/v1/models/{id}": h.handleDeleteModel,

		"GET /api/v1/tools":         h.handleListTools,
		"POST /api/v1/tools":        h.handleCreateTool,
		"GET /api/v1/tools/{id}":    h.handleGetTool,
		"PUT /api/v1/tools/{id}":    h.handleUpdateTool,
		"DELETE /api/v1/tools/{id}": h.handleDeleteTool,

		"GET /api/v1/knowledge-bases":         h.handleListKnowledgeBases,
		"POST /api/v1/knowledge-bases":        h.handleCreateKnowledgeBase,
		"GET /api/v1/knowledge-bases/{id}":    h.handleGetKnowledgeBase,
		"PUT /api/v1/knowledge-bases/{id}":    h.handleUpdateKnowledgeBase,
		"DELETE /api/v1/knowledge-bases/{id}": h.handleDeleteKnowledgeBase,

		"GET /api/v1/assets":         h.handleListAssets,
		"POST /api/v1/assets":        h.handleCreateAsset,
		"GET /api/v1/assets/{id}":    h.handleGetAsset,
		"PUT /api/v1/assets/{id}":    h.handleUpdateAsset,
		"DELETE /api/v1/assets/{id}": h.handleDeleteAsset,

		"GET /api/v1/borrows":              h.handleListBorrows,
		"POST /api/v1/borrows":             h.handleCreateBorrow,
		"GET /api/v1/borrows/{id}":         h.handleGetBorrow,
		"POST /api/v1/borrows/{id}/return": h.handleReturnBorrow,

		"GET /api/v1/inventory/tasks":                h.handleListInventoryTasks,
		"POST /api/v1/inventory/tasks":               h.handleCreateInventoryTask,
		"GET /api/v1/inventory/tasks/{id}":           h.handleGetInventoryTask,
		"POST /api/v1/inventory/tasks/{id}/start":    h.handleStartInventoryTask,
		"POST /api/v1/inventory/tasks/{id}/complete": h.handleCompleteInventoryTask,
		"GET /api/v1/inventory/tasks/{id}/records":   h.handleListInventoryRecords,
		"POST /api/v1/inventory/tasks/{id}/records":  h.handleSubmitInventoryRecord,

		"GET /api/v1/reports/summary":             h.handleReportSummary,
		"GET /api/v1/reports/borrow-trend":        h.handleReportBorrowTrend,
		"GET /api/v1/reports/inventory-breakdown": h.handleReportInventoryBreakdown,
		"GET /api/v1/reports/export":              h.handleReportExport,
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, h.authenticate(handler))
	}
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DB().PingContext(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// authenticate enforces the bearer token when one is configured.
func (h *Handler) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != h.token {
				respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
				return
			}
		}
		next(w, r)
	}
}

// envelope is the uniform response wrapper used by every endpoint.
type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// pagination mirrors the wire page metadata keys.
type pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// pageData is the data payload of a list endpoint.
type pageData struct {
	Items      any        `json:"items"`
	Pagination pagination `json:"pagination"`
}

func newPageData(items any, meta store.PageMeta) pageData {
	return pageData{
		Items: items,
		Pagination: pagination{
			CurrentPage: meta.CurrentPage,
			PageSize:    meta.PageSize,
			TotalItems:  meta.TotalItems,
			TotalPages:  meta.TotalPages,
		},
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondData wraps data in a SUCCESS envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, envelope{Code: "SUCCESS", Message: "ok", Data: data})
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, envelope{Code: code, Message: message})
}

// respondStoreError maps store errors onto wire codes.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidPeriod):
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

// pathID extracts and validates the numeric id path parameter. Returns
// (id, true) if valid, (0, false) if invalid (error already sent to client).
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeBody parses a JSON request body into dst. Returns false with the
// error already sent when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func queryInt64Ptr(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryBoolPtr(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
