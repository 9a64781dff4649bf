// Package api is the typed client for the assets/agents backend REST API.
// Every response arrives in a {code, message, data} envelope; code "SUCCESS"
// carries data, anything else is surfaced as an *Error. The client performs
// no retries: a failed call is returned immediately and the caller decides
// whether to roll back optimistic state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dootask/assetsctl/internal/domain"
)

// CodeSuccess is the envelope code for a successful backend response.
const CodeSuccess = "SUCCESS"

// Error is a backend-signaled failure: either a non-2xx HTTP status or an
// envelope whose code is not SUCCESS.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %s (HTTP %d)", e.Code, e.HTTPStatus)
}

// Is maps backend errors onto domain sentinels so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrBackend:
		return true
	case domain.ErrNotFound:
		return e.HTTPStatus == http.StatusNotFound || e.Code == "NOT_FOUND"
	default:
		return false
	}
}

// envelope is the uniform response wrapper used by every endpoint.
type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client issues requests against the backend and decodes envelopes.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	Agents         *AgentService
	Models         *ModelService
	Tools          *ToolService
	KnowledgeBases *KnowledgeBaseService
	Assets         *AssetService
	Borrows        *BorrowService
	Inventory      *InventoryService
	Reports        *ReportService
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used in tests and for
// custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the backend at baseURL. The token is sent as a
// bearer credential on every request; pass "" for unauthenticated demo use.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Agents = &AgentService{c: c}
	c.Models = &ModelService{c: c}
	c.Tools = &ToolService{c: c}
	c.KnowledgeBases = &KnowledgeBaseService{c: c}
	c.Assets = &AssetService{c: c}
	c.Borrows = &BorrowService{c: c}
	c.Inventory = &InventoryService{c: c}
	c.Reports = &ReportService{c: c}
	return c
}

// newRequest builds an HTTP request with auth and JSON headers.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes a request and returns the envelope data payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &Error{Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode), HTTPStatus: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if env.Code != CodeSuccess || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Code: env.Code, Message: env.Message, HTTPStatus: resp.StatusCode}
	}
	return env.Data, nil
}

// download executes a request and streams the raw (non-envelope) body to w.
// Used by export endpoints that return a binary blob.
func (c *Client) download(ctx context.Context, method, path string, query url.Values, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, method, path, query, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Code != "" {
			return 0, &Error{Code: env.Code, Message: env.Message, HTTPStatus: resp.StatusCode}
		}
		return 0, &Error{Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode), HTTPStatus: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("stream export: %w", err)
	}
	return n, nil
}

// decode unmarshals envelope data into T.
func decode[T any](data json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}

// getOne fetches a single entity from path.
func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// postOne sends body to path and decodes the returned entity.
func postOne[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	data, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// putOne sends a patch body to path and decodes the returned entity.
func putOne[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	data, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return nil, err
	}
	out, err := decode[T](data)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// listPage fetches one page of entities from path.
func listPage[T any](ctx context.Context, c *Client, path string, q ListQuery) (*Page[T], error) {
	data, err := c.do(ctx, http.MethodGet, path, q.Values(), nil)
	if err != nil {
		return nil, err
	}
	page, err := decode[Page[T]](data)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// fetchAllPageSize is the page size used by fetch-all loops.
const fetchAllPageSize = 100

// listAll walks every page of path. Used by the cross-reference guard, which
// must see the complete entity set, not just the page currently displayed.
func listAll[T any](ctx context.Context, c *Client, path string, q ListQuery) ([]T, error) {
	q.Page = 1
	q.PageSize = fetchAllPageSize

	var all []T
	for {
		page, err := listPage[T](ctx, c, path, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if q.Page >= page.Pagination.TotalPages || len(page.Items) == 0 {
			return all, nil
		}
		q.Page++
	}
}
