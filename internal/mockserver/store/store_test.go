package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaging(t *testing.T) {
	limit, offset, meta := paging(3, 10, 25)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
	assert.Equal(t, PageMeta{CurrentPage: 3, PageSize: 10, TotalItems: 25, TotalPages: 3}, meta)

	// Out-of-range inputs normalize instead of erroring.
	limit, offset, meta = paging(0, 0, 5)
	assert.Equal(t, 20, limit)
	assert.Zero(t, offset)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.TotalPages)

	limit, _, _ = paging(1, 9999, 5)
	assert.Equal(t, 20, limit)

	_, _, meta = paging(1, 10, 0)
	assert.Zero(t, meta.TotalPages)
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"name": "name", "created_at": "created_at"}

	assert.Equal(t, []string{"created_at DESC", "name ASC"},
		orderBy("-created_at,name", allowed, "id ASC"))

	// Unknown keys are skipped; empty input falls back.
	assert.Equal(t, []string{"name ASC"},
		orderBy("name,password; DROP TABLE assets", allowed, "id ASC"))
	assert.Equal(t, []string{"id ASC"}, orderBy("", allowed, "id ASC"))
	assert.Equal(t, []string{"id ASC"}, orderBy("nope", allowed, "id ASC"))
}
