package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/domain"
)

func TestIDList_UnmarshalNativeArray(t *testing.T) {
	var l domain.IDList
	require.NoError(t, json.Unmarshal([]byte(`[1, 2, 3]`), &l))
	assert.Equal(t, domain.IDList{1, 2, 3}, l)
}

func TestIDList_UnmarshalStringEncodedArray(t *testing.T) {
	var l domain.IDList
	require.NoError(t, json.Unmarshal([]byte(`"[4, 5]"`), &l))
	assert.Equal(t, domain.IDList{4, 5}, l)
}

func TestIDList_UnmarshalGarbageYieldsEmpty(t *testing.T) {
	cases := map[string]string{
		"not json string": `"not json"`,
		"bare number":     `42`,
		"object":          `{"a": 1}`,
		"null":            `null`,
		"string null":     `"null"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var l domain.IDList
			require.NoError(t, json.Unmarshal([]byte(raw), &l))
			assert.Empty(t, l)
		})
	}
}

func TestIDList_MarshalNilAsEmptyArray(t *testing.T) {
	var l domain.IDList
	raw, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestIDList_Contains(t *testing.T) {
	l := domain.IDList{7, 8}
	assert.True(t, l.Contains(7))
	assert.False(t, l.Contains(9))
}

func TestAgent_References(t *testing.T) {
	modelID := int64(3)
	agent := domain.Agent{
		AIModelID:      &modelID,
		Tools:          domain.IDList{1, 2},
		KnowledgeBases: domain.IDList{5},
	}

	assert.True(t, agent.References(domain.ReferenceModel, 3))
	assert.False(t, agent.References(domain.ReferenceModel, 4))
	assert.True(t, agent.References(domain.ReferenceTool, 2))
	assert.False(t, agent.References(domain.ReferenceTool, 5))
	assert.True(t, agent.References(domain.ReferenceKnowledgeBase, 5))
	assert.False(t, agent.References(domain.ReferenceKnowledgeBase, 1))
}

func TestAgent_ReferencesNilModel(t *testing.T) {
	agent := domain.Agent{}
	assert.False(t, agent.References(domain.ReferenceModel, 1))
}

func TestAgent_ReferencesFromUnparseableField(t *testing.T) {
	var agent domain.Agent
	raw := `{"id": 1, "name": "x", "tools": "not json", "knowledge_bases": 42}`
	require.NoError(t, json.Unmarshal([]byte(raw), &agent))

	assert.False(t, agent.References(domain.ReferenceTool, 1))
	assert.False(t, agent.References(domain.ReferenceKnowledgeBase, 1))
}

func TestStatusLabels_FallBackToRawValue(t *testing.T) {
	assert.Equal(t, "Available", domain.AssetStatusAvailable.Label())
	assert.Equal(t, "archived", domain.AssetStatus("archived").Label())

	assert.Equal(t, "Overdue", domain.BorrowStatusOverdue.Label())
	assert.Equal(t, "lost", domain.BorrowStatus("lost").Label())

	assert.Equal(t, "In progress", domain.InventoryStatusInProgress.Label())
	assert.Equal(t, "paused", domain.InventoryStatus("paused").Label())

	assert.Equal(t, "Damaged", domain.InventoryResultDamaged.Label())
	assert.Equal(t, "missing", domain.InventoryResult("missing").Label())
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, domain.AssetStatusScrapped.IsValid())
	assert.False(t, domain.AssetStatus("archived").IsValid())
	assert.True(t, domain.InventoryResultSurplus.IsValid())
	assert.False(t, domain.InventoryResult("").IsValid())
}
