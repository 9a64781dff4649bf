package console

import (
	"context"

	"github.com/dootask/assetsctl/internal/api"
)

// ListController owns the view state of one entity listing: the fetched page,
// its server-reported pagination metadata, and an optional keyword filter
// applied client-side to the rows already in memory. Loading replaces the
// items wholesale; there is no merging or diffing.
type ListController[T any] struct {
	fetch func(context.Context, api.ListQuery) (*api.Page[T], error)
	match func(T, string) bool

	query      api.ListQuery
	keyword    string
	items      []T
	pagination api.Pagination
	loading    bool
}

// NewListController creates a controller around a list endpoint. match is the
// client-side keyword predicate; pass nil if the listing has no local search.
func NewListController[T any](
	fetch func(context.Context, api.ListQuery) (*api.Page[T], error),
	match func(T, string) bool,
	pageSize int,
) *ListController[T] {
	return &ListController[T]{
		fetch: fetch,
		match: match,
		query: api.ListQuery{Page: 1, PageSize: pageSize},
	}
}

// Load fetches the current page and replaces the in-memory items. On failure
// the previous items are kept and the error is returned for the caller to
// surface.
func (l *ListController[T]) Load(ctx context.Context) error {
	l.loading = true
	defer func() { l.loading = false }()

	page, err := l.fetch(ctx, l.query)
	if err != nil {
		return err
	}

	l.items = page.Items
	l.pagination = page.Pagination
	return nil
}

// SetPage changes the requested page. Callers re-Load afterwards.
func (l *ListController[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	l.query.Page = page
}

// SetSorts changes the server-side ordering. Callers re-Load afterwards.
func (l *ListController[T]) SetSorts(sorts []api.Sort) {
	l.query.Sorts = sorts
}

// SetServerFilter sets a server-side filter parameter. Callers re-Load
// afterwards.
func (l *ListController[T]) SetServerFilter(key, value string) {
	l.query = l.query.WithFilter(key, value)
}

// SetKeyword sets the client-side keyword. It only narrows the page already
// fetched; it never triggers a request.
func (l *ListController[T]) SetKeyword(keyword string) {
	l.keyword = keyword
}

// Items returns the raw fetched page.
func (l *ListController[T]) Items() []T {
	return l.items
}

// Visible returns the items passing the client-side keyword filter.
func (l *ListController[T]) Visible() []T {
	if l.keyword == "" || l.match == nil {
		return l.items
	}
	filtered := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if l.match(item, l.keyword) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Loading reports whether a fetch is in flight.
func (l *ListController[T]) Loading() bool {
	return l.loading
}

// Total returns the server-reported item count. Displays must use this, not
// the fetched slice length, which is bounded by the page size.
func (l *ListController[T]) Total() int {
	return l.pagination.TotalItems
}

// Pagination returns the server-reported page metadata.
func (l *ListController[T]) Pagination() api.Pagination {
	return l.pagination
}

// Paginated reports whether pagination controls should be shown at all.
func (l *ListController[T]) Paginated() bool {
	return l.pagination.TotalPages > 1
}
