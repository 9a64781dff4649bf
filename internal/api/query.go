package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort is a single ordering key for list endpoints.
type Sort struct {
	Key  string
	Desc bool
}

// ListQuery holds pagination, ordering and entity-specific filters for list
// endpoints. Filter keys are passed through verbatim (e.g. "is_active",
// "category_id", "keyword").
type ListQuery struct {
	Page     int
	PageSize int
	Sorts    []Sort
	Filters  map[string]string
}

// Values encodes the query as URL parameters. Sorts are joined into a single
// comma-separated parameter with a "-" prefix for descending keys.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if len(q.Sorts) > 0 {
		keys := make([]string, 0, len(q.Sorts))
		for _, s := range q.Sorts {
			if s.Desc {
				keys = append(keys, "-"+s.Key)
			} else {
				keys = append(keys, s.Key)
			}
		}
		v.Set("sorts", strings.Join(keys, ","))
	}
	for key, val := range q.Filters {
		v.Set(key, val)
	}
	return v
}

// WithFilter returns a copy of the query with the filter set.
func (q ListQuery) WithFilter(key, value string) ListQuery {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}

// Pagination is the server-reported page metadata. Displayed totals must come
// from here, never from the length of the returned items slice.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// Page is one page of a list endpoint response.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
