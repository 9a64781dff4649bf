package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/domain"
)

type wireEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, env wireEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func TestClient_GetDecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents/7", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		respond(w, http.StatusOK, wireEnvelope{
			Code: "SUCCESS",
			Data: map[string]any{"id": 7, "name": "triage"},
		})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "secret")
	agent, err := c.Agents.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), agent.ID)
	assert.Equal(t, "triage", agent.Name)
}

func TestClient_LogicalErrorInSuccessfulHTTPResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, wireEnvelope{Code: "QUOTA_EXCEEDED", Message: "too many agents"})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	_, err := c.Agents.Get(context.Background(), 1)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "QUOTA_EXCEEDED", apiErr.Code)
	assert.Equal(t, "too many agents", apiErr.Message)
	assert.ErrorIs(t, err, domain.ErrBackend)
}

func TestClient_NotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, wireEnvelope{Code: "NOT_FOUND", Message: "no such agent"})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	_, err := c.Agents.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := api.New(srv.URL, "")
	_, err := c.Agents.Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClient_ListQueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "50", q.Get("page_size"))
		assert.Equal(t, "-created_at,name", q.Get("sorts"))
		assert.Equal(t, "true", q.Get("is_active"))
		respond(w, http.StatusOK, wireEnvelope{
			Code: "SUCCESS",
			Data: map[string]any{
				"items": []any{},
				"pagination": map[string]int{
					"current_page": 2, "page_size": 50, "total_items": 0, "total_pages": 0,
				},
			},
		})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	_, err := c.Agents.List(context.Background(), api.ListQuery{
		Page:     2,
		PageSize: 50,
		Sorts:    []api.Sort{{Key: "created_at", Desc: true}, {Key: "name"}},
		Filters:  map[string]string{"is_active": "true"},
	})
	require.NoError(t, err)
}

func TestClient_ListReturnsPaginationMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, wireEnvelope{
			Code: "SUCCESS",
			Data: map[string]any{
				"items": []map[string]any{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}},
				"pagination": map[string]int{
					"current_page": 1, "page_size": 2, "total_items": 57, "total_pages": 29,
				},
			},
		})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	page, err := c.Agents.List(context.Background(), api.ListQuery{})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 57, page.Pagination.TotalItems)
	assert.Equal(t, 29, page.Pagination.TotalPages)
}

func TestClient_AllWalksEveryPage(t *testing.T) {
	const total = 250
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		require.Positive(t, page)
		require.Positive(t, size)

		start := (page - 1) * size
		items := []map[string]any{}
		for i := start; i < start+size && i < total; i++ {
			items = append(items, map[string]any{"id": i + 1, "name": fmt.Sprintf("agent-%d", i+1)})
		}
		respond(w, http.StatusOK, wireEnvelope{
			Code: "SUCCESS",
			Data: map[string]any{
				"items": items,
				"pagination": map[string]int{
					"current_page": page,
					"page_size":    size,
					"total_items":  total,
					"total_pages":  (total + size - 1) / size,
				},
			},
		})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	agents, err := c.Agents.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, agents, total)
	assert.Equal(t, int64(1), agents[0].ID)
	assert.Equal(t, int64(total), agents[total-1].ID)
}

func TestClient_AgentReferenceFieldsTolerateLegacyShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, wireEnvelope{
			Code: "SUCCESS",
			Data: json.RawMessage(`{"id": 1, "name": "legacy", "tools": "[3,4]", "knowledge_bases": "not json"}`),
		})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	agent, err := c.Agents.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{3, 4}, agent.Tools)
	assert.Empty(t, agent.KnowledgeBases)
}

func TestClient_ExportStreamsRawBody(t *testing.T) {
	payload := []byte("id,asset_no,name\n1,AST-1,Laptop\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write(payload)
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	var buf bytes.Buffer
	n, err := c.Reports.Export(context.Background(), api.ExportCSV, api.ReportQuery{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, payload, buf.Bytes())
}

func TestClient_ExportRejectsUnknownFormat(t *testing.T) {
	c := api.New("http://localhost:0", "")
	var buf bytes.Buffer
	_, err := c.Reports.Export(context.Background(), api.ExportFormat("docx"), api.ReportQuery{}, &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Zero(t, buf.Len())
}

func TestClient_ExportErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnprocessableEntity, wireEnvelope{Code: "VALIDATION_ERROR", Message: "unsupported format"})
	}))
	defer srv.Close()

	c := api.New(srv.URL, "")
	var buf bytes.Buffer
	_, err := c.Reports.Export(context.Background(), api.ExportPDF, api.ReportQuery{}, &buf)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Zero(t, buf.Len())
}
