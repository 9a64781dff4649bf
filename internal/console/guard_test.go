package console_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

// scriptedConfirmer answers the next prompt from a queue and records prompts.
type scriptedConfirmer struct {
	answers []bool
	err     error
	prompts []string
}

func (c *scriptedConfirmer) Confirm(prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return false, c.err
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

func guardAgents() []domain.Agent {
	model := int64(7)
	return []domain.Agent{
		{ID: 1, Name: "Billing bot", AIModelID: &model, Tools: domain.IDList{3, 4}},
		{ID: 2, Name: "Support triage", Tools: domain.IDList{4}},
		{ID: 3, Name: "Crawler", KnowledgeBases: domain.IDList{9}},
	}
}

func fetchAll(agents []domain.Agent, err error) func(context.Context) ([]domain.Agent, error) {
	return func(context.Context) ([]domain.Agent, error) { return agents, err }
}

func TestReferenceGuard_EnumeratesDependents(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	notifier := &recordingNotifier{}
	g := console.NewReferenceGuard(fetchAll(guardAgents(), nil), confirmer, notifier)

	deletes := 0
	outcome, err := g.Delete(context.Background(), domain.ReferenceTool, 4, `tool "web_search"`,
		func(context.Context) error { deletes++; return nil })
	require.NoError(t, err)

	// Exactly the two agents holding tool 4, not the crawler.
	assert.Equal(t, []string{"Billing bot", "Support triage"}, outcome.Dependents)
	assert.True(t, outcome.Deleted)
	assert.Equal(t, 1, deletes)

	require.Len(t, confirmer.prompts, 1)
	assert.Contains(t, confirmer.prompts[0], "2 agent(s)")
	assert.Contains(t, confirmer.prompts[0], "Billing bot, Support triage")
	require.Len(t, notifier.successes, 1)
	assert.Contains(t, notifier.successes[0], "dangling")
}

func TestReferenceGuard_ModelReference(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	g := console.NewReferenceGuard(fetchAll(guardAgents(), nil), confirmer, &recordingNotifier{})

	outcome, err := g.Delete(context.Background(), domain.ReferenceModel, 7, "model gpt-4o",
		func(context.Context) error { t.Fatal("delete must not run"); return nil })
	require.NoError(t, err)

	assert.Equal(t, []string{"Billing bot"}, outcome.Dependents)
	assert.False(t, outcome.Deleted)
}

func TestReferenceGuard_NoDependentsPlainPrompt(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	g := console.NewReferenceGuard(fetchAll(guardAgents(), nil), confirmer, &recordingNotifier{})

	outcome, err := g.Delete(context.Background(), domain.ReferenceTool, 99, "tool forgotten",
		func(context.Context) error { return nil })
	require.NoError(t, err)

	assert.Empty(t, outcome.Dependents)
	assert.True(t, outcome.Deleted)
	assert.NotContains(t, confirmer.prompts[0], "referenced")
}

func TestReferenceGuard_CancelIsNotAnError(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	notifier := &recordingNotifier{}
	g := console.NewReferenceGuard(fetchAll(guardAgents(), nil), confirmer, notifier)

	deletes := 0
	outcome, err := g.Delete(context.Background(), domain.ReferenceKnowledgeBase, 9, "kb docs",
		func(context.Context) error { deletes++; return nil })
	require.NoError(t, err)

	assert.False(t, outcome.Deleted)
	assert.Equal(t, []string{"Crawler"}, outcome.Dependents)
	assert.Zero(t, deletes)
	assert.Empty(t, notifier.errors)
	assert.Empty(t, notifier.successes)
}

func TestReferenceGuard_FetchFailureAborts(t *testing.T) {
	notifier := &recordingNotifier{}
	g := console.NewReferenceGuard(
		fetchAll(nil, errors.New("agents endpoint down")),
		&scriptedConfirmer{},
		notifier,
	)

	deletes := 0
	outcome, err := g.Delete(context.Background(), domain.ReferenceModel, 1, "model x",
		func(context.Context) error { deletes++; return nil })
	require.Error(t, err)

	// A failed pre-check must never fall through to an unguarded delete.
	assert.Nil(t, outcome)
	assert.Zero(t, deletes)
	assert.Contains(t, err.Error(), "reference pre-check")
	require.Len(t, notifier.errors, 1)
}

func TestReferenceGuard_LegacyReferenceShapesCount(t *testing.T) {
	// Agents whose reference fields arrive string-encoded or as garbage.
	var legacy, garbage domain.Agent
	require.NoError(t, json.Unmarshal([]byte(`{"id": 10, "name": "Legacy", "tools": "[4]"}`), &legacy))
	require.NoError(t, json.Unmarshal([]byte(`{"id": 11, "name": "Broken", "tools": "oops"}`), &garbage))

	confirmer := &scriptedConfirmer{answers: []bool{false}}
	g := console.NewReferenceGuard(
		fetchAll([]domain.Agent{legacy, garbage}, nil),
		confirmer,
		&recordingNotifier{},
	)

	outcome, err := g.Delete(context.Background(), domain.ReferenceTool, 4, "tool web_search",
		func(context.Context) error { return nil })
	require.NoError(t, err)

	// The recovered string-encoded list counts; the unparseable one does not.
	assert.Equal(t, []string{"Legacy"}, outcome.Dependents)
}

func TestReferenceGuard_DeleteFailureNotifies(t *testing.T) {
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	notifier := &recordingNotifier{}
	g := console.NewReferenceGuard(fetchAll(guardAgents(), nil), confirmer, notifier)

	outcome, err := g.Delete(context.Background(), domain.ReferenceTool, 99, "tool x",
		func(context.Context) error { return errors.New("backend refused") })
	require.Error(t, err)

	assert.Nil(t, outcome)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "backend refused")
}
