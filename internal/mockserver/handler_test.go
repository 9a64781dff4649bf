package mockserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/mockserver"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

const testToken = "test-token"

type HandlerTestSuite struct {
	suite.Suite
	store *store.Store
	mux   *http.ServeMux
}

func (s *HandlerTestSuite) SetupTest() {
	st, err := store.Open(context.Background(), ":memory:")
	s.Require().NoError(err)
	s.store = st

	s.mux = http.NewServeMux()
	mockserver.New(st, testToken).RegisterRoutes(s.mux)
}

func (s *HandlerTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// wireResponse is the envelope every endpoint responds with; Data stays raw so
// each test can decode the payload it expects.
type wireResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wirePage struct {
	Items      json.RawMessage `json:"items"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		PageSize    int `json:"page_size"`
		TotalItems  int `json:"total_items"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
}

func (s *HandlerTestSuite) makeRequest(method, path, token string, body any) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		s.Require().NoError(err)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder) wireResponse {
	var resp wireResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerTestSuite) decodeData(w *httptest.ResponseRecorder, dst any) {
	resp := s.decode(w)
	s.Require().Equal("SUCCESS", resp.Code)
	s.Require().NoError(json.Unmarshal(resp.Data, dst))
}

func (s *HandlerTestSuite) decodePage(w *httptest.ResponseRecorder, items any) wirePage {
	var page wirePage
	s.decodeData(w, &page)
	s.Require().NoError(json.Unmarshal(page.Items, items))
	return page
}

func (s *HandlerTestSuite) createAsset(name string, price float64) domain.Asset {
	w := s.makeRequest("POST", "/api/v1/assets", testToken, map[string]any{
		"name":          name,
		"category_id":   1,
		"department_id": 1,
		"price":         price,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	var asset domain.Asset
	s.decodeData(w, &asset)
	return asset
}

func (s *HandlerTestSuite) getAsset(id int64) domain.Asset {
	w := s.makeRequest("GET", fmt.Sprintf("/api/v1/assets/%d", id), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var asset domain.Asset
	s.decodeData(w, &asset)
	return asset
}

func (s *HandlerTestSuite) TestRequestWithoutTokenRejected() {
	w := s.makeRequest("GET", "/api/v1/agents", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("INVALID_TOKEN", s.decode(w).Code)
}

func (s *HandlerTestSuite) TestAgentCRUD() {
	w := s.makeRequest("POST", "/api/v1/agents", testToken, map[string]any{
		"name":        "Billing bot",
		"prompt":      "You handle billing questions.",
		"temperature": 0.4,
		"tools":       []int64{1, 2},
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var created domain.Agent
	s.decodeData(w, &created)
	s.NotZero(created.ID)
	s.Equal("Billing bot", created.Name)
	s.True(created.IsActive)
	s.Equal(domain.IDList{1, 2}, created.Tools)

	w = s.makeRequest("PUT", fmt.Sprintf("/api/v1/agents/%d", created.ID), testToken, map[string]any{
		"is_active": false,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var updated domain.Agent
	s.decodeData(w, &updated)
	s.False(updated.IsActive)
	s.Equal("Billing bot", updated.Name, "fields absent from the patch stay unchanged")

	w = s.makeRequest("DELETE", fmt.Sprintf("/api/v1/agents/%d", created.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/agents/%d", created.ID), testToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", s.decode(w).Code)
}

func (s *HandlerTestSuite) TestAgentListPagination() {
	for i := 0; i < 25; i++ {
		w := s.makeRequest("POST", "/api/v1/agents", testToken, map[string]any{
			"name": fmt.Sprintf("agent-%02d", i),
		})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := s.makeRequest("GET", "/api/v1/agents?page=2&page_size=10&sorts=name", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var agents []domain.Agent
	page := s.decodePage(w, &agents)
	s.Len(agents, 10)
	s.Equal(2, page.Pagination.CurrentPage)
	s.Equal(10, page.Pagination.PageSize)
	s.Equal(25, page.Pagination.TotalItems)
	s.Equal(3, page.Pagination.TotalPages)
	s.Equal("agent-10", agents[0].Name)
}

func (s *HandlerTestSuite) TestAgentLegacyReferencesNormalized() {
	w := s.makeRequest("POST", "/api/v1/agents", testToken, map[string]any{"name": "Legacy"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var created domain.Agent
	s.decodeData(w, &created)

	// Older rows carry references as a JSON string instead of an array.
	err := s.store.SetAgentReferencesRaw(context.Background(), created.ID, `"[3,4]"`, `not json`)
	s.Require().NoError(err)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/agents/%d", created.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	s.Contains(w.Body.String(), `"tools":[3,4]`, "responses always carry a native array")
	var got domain.Agent
	s.decodeData(w, &got)
	s.Equal(domain.IDList{3, 4}, got.Tools)
	s.Empty(got.KnowledgeBases)
}

func (s *HandlerTestSuite) TestModelDefaultCascade() {
	var ids []int64
	for _, name := range []string{"gpt-4o", "claude-sonnet"} {
		w := s.makeRequest("POST", "/api/v1/models", testToken, map[string]any{
			"provider":   "test",
			"model_name": name,
			"is_enabled": true,
		})
		s.Require().Equal(http.StatusCreated, w.Code)
		var m domain.AIModel
		s.decodeData(w, &m)
		ids = append(ids, m.ID)
	}

	for _, id := range ids {
		w := s.makeRequest("PUT", fmt.Sprintf("/api/v1/models/%d", id), testToken, map[string]any{
			"is_default": true,
		})
		s.Require().Equal(http.StatusOK, w.Code)
	}

	w := s.makeRequest("GET", "/api/v1/models", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var models []domain.AIModel
	s.decodePage(w, &models)
	defaults := 0
	for _, m := range models {
		if m.IsDefault {
			defaults++
			s.Equal(ids[1], m.ID, "the most recent set-default wins")
		}
	}
	s.Equal(1, defaults)
}

func (s *HandlerTestSuite) TestCreateAgentRequiresName() {
	w := s.makeRequest("POST", "/api/v1/agents", testToken, map[string]any{"prompt": "no name"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decode(w).Code)
}

func (s *HandlerTestSuite) TestMalformedRequests() {
	req := httptest.NewRequest("POST", "/api/v1/agents", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_JSON", s.decode(w).Code)

	got := s.makeRequest("GET", "/api/v1/agents/zero", testToken, nil)
	s.Equal(http.StatusBadRequest, got.Code)
	s.Equal("INVALID_REQUEST", s.decode(got).Code)
}

func (s *HandlerTestSuite) TestBorrowLifecycle() {
	asset := s.createAsset("ThinkPad X1", 1500)
	s.Equal(domain.AssetStatusAvailable, asset.Status)
	s.True(strings.HasPrefix(asset.AssetNo, "AST-"))

	w := s.makeRequest("POST", "/api/v1/borrows", testToken, map[string]any{
		"asset_id": asset.ID,
		"borrower": "pat",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var borrow domain.BorrowRecord
	s.decodeData(w, &borrow)
	s.Equal(domain.BorrowStatusBorrowed, borrow.Status)
	s.Equal("ThinkPad X1", borrow.AssetName)
	s.Equal(domain.AssetStatusBorrowed, s.getAsset(asset.ID).Status)

	// A borrowed asset cannot be borrowed again.
	w = s.makeRequest("POST", "/api/v1/borrows", testToken, map[string]any{
		"asset_id": asset.ID,
		"borrower": "sam",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decode(w).Code)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/borrows/%d/return", borrow.ID), testToken, map[string]any{
		"remark": "all good",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var returned domain.BorrowRecord
	s.decodeData(w, &returned)
	s.Equal(domain.BorrowStatusReturned, returned.Status)
	s.NotNil(returned.ReturnedAt)
	s.Equal(domain.AssetStatusAvailable, s.getAsset(asset.ID).Status)

	// Returning twice is rejected.
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/borrows/%d/return", borrow.ID), testToken, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestOverdueBorrowSurfacesInList() {
	asset := s.createAsset("Projector", 800)
	due := time.Now().Add(-48 * time.Hour).UTC()
	w := s.makeRequest("POST", "/api/v1/borrows", testToken, map[string]any{
		"asset_id": asset.ID,
		"borrower": "kim",
		"due_at":   due.Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.makeRequest("GET", "/api/v1/borrows?status=overdue", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var records []domain.BorrowRecord
	s.decodePage(w, &records)
	s.Require().Len(records, 1)
	s.Equal(domain.BorrowStatusOverdue, records[0].Status)
}

func (s *HandlerTestSuite) TestInventoryFlow() {
	a1 := s.createAsset("Desk", 200)
	a2 := s.createAsset("Chair", 100)

	w := s.makeRequest("POST", "/api/v1/inventory/tasks", testToken, map[string]any{
		"name": "Q3 audit",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var task domain.InventoryTask
	s.decodeData(w, &task)
	s.Equal(domain.InventoryStatusPending, task.Status)
	s.Equal(2, task.TotalAssets)
	s.Zero(task.CheckedCount)

	// Checks are rejected until the task is started.
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, map[string]any{
		"asset_id": a1.ID,
		"result":   "normal",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/start", task.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decodeData(w, &task)
	s.Equal(domain.InventoryStatusInProgress, task.Status)
	s.NotNil(task.StartedAt)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, map[string]any{
		"asset_id": a1.ID,
		"result":   "normal",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	// Resubmitting the same asset replaces the record instead of stacking.
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, map[string]any{
		"asset_id": a1.ID,
		"result":   "damaged",
		"remark":   "screen cracked",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, map[string]any{
		"asset_id": a2.ID,
		"result":   "normal",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/inventory/tasks/%d", task.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decodeData(w, &task)
	s.Equal(2, task.CheckedCount)

	w = s.makeRequest("GET", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var records []domain.InventoryRecord
	page := s.decodePage(w, &records)
	s.Equal(2, page.Pagination.TotalItems)
	byAsset := map[int64]domain.InventoryRecord{}
	for _, rec := range records {
		byAsset[rec.AssetID] = rec
	}
	s.Equal(domain.InventoryResultDamaged, byAsset[a1.ID].Result)
	s.Equal("screen cracked", byAsset[a1.ID].Remark)

	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/complete", task.ID), testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decodeData(w, &task)
	s.Equal(domain.InventoryStatusCompleted, task.Status)
	s.NotNil(task.CompletedAt)

	// A completed task accepts no further checks.
	w = s.makeRequest("POST", fmt.Sprintf("/api/v1/inventory/tasks/%d/records", task.ID), testToken, map[string]any{
		"asset_id": a2.ID,
		"result":   "normal",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestReportSummary() {
	a1 := s.createAsset("Laptop", 1000)
	s.createAsset("Monitor", 300)

	w := s.makeRequest("POST", "/api/v1/borrows", testToken, map[string]any{
		"asset_id": a1.ID,
		"borrower": "lee",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.makeRequest("GET", "/api/v1/reports/summary", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var summary struct {
		TotalAssets    int            `json:"total_assets"`
		AssetsByStatus map[string]int `json:"assets_by_status"`
		ActiveBorrows  int            `json:"active_borrows"`
		OverdueBorrows int            `json:"overdue_borrows"`
		TotalValue     float64        `json:"total_value"`
	}
	s.decodeData(w, &summary)
	s.Equal(2, summary.TotalAssets)
	s.Equal(1, summary.AssetsByStatus["borrowed"])
	s.Equal(1, summary.AssetsByStatus["available"])
	s.Equal(1, summary.ActiveBorrows)
	s.Zero(summary.OverdueBorrows)
	s.InDelta(1300, summary.TotalValue, 0.01)
}

func (s *HandlerTestSuite) TestReportBorrowTrend() {
	asset := s.createAsset("Camera", 600)
	w := s.makeRequest("POST", "/api/v1/borrows", testToken, map[string]any{
		"asset_id": asset.ID,
		"borrower": "ada",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.makeRequest("GET", "/api/v1/reports/borrow-trend", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var trend struct {
		Points []struct {
			Date     string `json:"date"`
			Borrowed int    `json:"borrowed"`
			Returned int    `json:"returned"`
		} `json:"points"`
	}
	s.decodeData(w, &trend)
	s.Require().NotEmpty(trend.Points)

	// Every day in the range gets a point; today's carries the borrow.
	today := time.Now().UTC().Format("2006-01-02")
	borrowed := 0
	for _, p := range trend.Points {
		if p.Date == today {
			borrowed = p.Borrowed
		}
	}
	s.Equal(1, borrowed)
}

func (s *HandlerTestSuite) TestReportExportCSV() {
	s.createAsset("Printer", 250)

	w := s.makeRequest("GET", "/api/v1/reports/export?format=csv", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("text/csv", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	s.Require().Len(lines, 2)
	s.Contains(lines[0], "asset_no")
	s.Contains(lines[1], "Printer")
}

func (s *HandlerTestSuite) TestReportExportRejectsUnknownFormat() {
	w := s.makeRequest("GET", "/api/v1/reports/export?format=docx", testToken, nil)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("VALIDATION_ERROR", s.decode(w).Code)
}

func (s *HandlerTestSuite) TestSeedIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Seed(ctx))
	s.Require().NoError(s.store.Seed(ctx))

	w := s.makeRequest("GET", "/api/v1/agents?page_size=100", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var agents []domain.Agent
	page := s.decodePage(w, &agents)
	s.Equal(3, page.Pagination.TotalItems)
}
