package console_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

func agentMatch(a domain.Agent, keyword string) bool {
	return strings.Contains(strings.ToLower(a.Name), strings.ToLower(keyword))
}

func fixedPage(items []domain.Agent, total int) func(context.Context, api.ListQuery) (*api.Page[domain.Agent], error) {
	return func(ctx context.Context, q api.ListQuery) (*api.Page[domain.Agent], error) {
		pages := (total + q.PageSize - 1) / q.PageSize
		return &api.Page[domain.Agent]{
			Items: items,
			Pagination: api.Pagination{
				CurrentPage: q.Page,
				PageSize:    q.PageSize,
				TotalItems:  total,
				TotalPages:  pages,
			},
		}, nil
	}
}

func TestListController_TotalComesFromMetadata(t *testing.T) {
	items := []domain.Agent{{ID: 1, Name: "alpha"}, {ID: 2, Name: "beta"}}
	l := console.NewListController(fixedPage(items, 57), agentMatch, 20)
	require.NoError(t, l.Load(context.Background()))

	assert.Equal(t, 57, l.Total())
	assert.Len(t, l.Items(), 2)
	assert.True(t, l.Paginated())
}

func TestListController_KeywordFiltersLocally(t *testing.T) {
	var fetches int
	fetch := func(ctx context.Context, q api.ListQuery) (*api.Page[domain.Agent], error) {
		fetches++
		return fixedPage([]domain.Agent{
			{ID: 1, Name: "Billing bot"},
			{ID: 2, Name: "Support triage"},
			{ID: 3, Name: "billing escalation"},
		}, 3)(ctx, q)
	}
	l := console.NewListController(fetch, agentMatch, 20)
	require.NoError(t, l.Load(context.Background()))

	l.SetKeyword("billing")
	visible := l.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, int64(1), visible[0].ID)
	assert.Equal(t, int64(3), visible[1].ID)

	// The keyword narrows in memory only; Total still reports the server count
	// and no second request was made.
	assert.Equal(t, 3, l.Total())
	assert.Equal(t, 1, fetches)

	l.SetKeyword("")
	assert.Len(t, l.Visible(), 3)
}

func TestListController_SinglePageHidesPagination(t *testing.T) {
	l := console.NewListController(fixedPage([]domain.Agent{{ID: 1}}, 1), nil, 20)
	require.NoError(t, l.Load(context.Background()))

	assert.False(t, l.Paginated())
	assert.Equal(t, 1, l.Total())
}

func TestListController_LoadFailureKeepsPreviousItems(t *testing.T) {
	var fail bool
	fetch := func(ctx context.Context, q api.ListQuery) (*api.Page[domain.Agent], error) {
		if fail {
			return nil, errors.New("gateway timeout")
		}
		return fixedPage([]domain.Agent{{ID: 1, Name: "alpha"}}, 1)(ctx, q)
	}
	l := console.NewListController(fetch, agentMatch, 20)
	require.NoError(t, l.Load(context.Background()))

	fail = true
	err := l.Load(context.Background())
	require.Error(t, err)

	assert.Len(t, l.Items(), 1)
	assert.Equal(t, 1, l.Total())
	assert.False(t, l.Loading())
}

func TestListController_QueryPassThrough(t *testing.T) {
	var got api.ListQuery
	fetch := func(ctx context.Context, q api.ListQuery) (*api.Page[domain.Agent], error) {
		got = q
		return fixedPage(nil, 0)(ctx, q)
	}
	l := console.NewListController(fetch, nil, 50)
	l.SetPage(3)
	l.SetSorts([]api.Sort{{Key: "created_at", Desc: true}})
	l.SetServerFilter("is_active", "true")
	require.NoError(t, l.Load(context.Background()))

	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 50, got.PageSize)
	assert.Equal(t, []api.Sort{{Key: "created_at", Desc: true}}, got.Sorts)
	assert.Equal(t, "true", got.Filters["is_active"])

	l.SetPage(0)
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, 1, got.Page)
}
