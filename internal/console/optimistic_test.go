package console_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

// recordingNotifier captures notifications instead of printing them.
type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func agentID(a domain.Agent) int64 { return a.ID }

func testAgents() []domain.Agent {
	return []domain.Agent{
		{ID: 1, Name: "alpha", IsActive: true},
		{ID: 2, Name: "beta", IsActive: false},
		{ID: 3, Name: "gamma", IsActive: true},
	}
}

func TestMutator_ToggleAppliesServerEntity(t *testing.T) {
	notifier := &recordingNotifier{}
	m := console.NewMutator(agentID, notifier)
	items := testAgents()

	err := m.Toggle(context.Background(), items, 2,
		func(a *domain.Agent, v bool) { a.IsActive = v },
		true,
		func(ctx context.Context) (*domain.Agent, error) {
			return &domain.Agent{ID: 2, Name: "beta (renamed by server)", IsActive: true}, nil
		},
	)
	require.NoError(t, err)

	// Server entity replaces the optimistic guess entirely.
	assert.Equal(t, "beta (renamed by server)", items[1].Name)
	assert.True(t, items[1].IsActive)
	assert.Empty(t, notifier.errors)
}

func TestMutator_RollbackOnFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	m := console.NewMutator(agentID, notifier)
	items := testAgents()

	var seenDuringCall bool
	err := m.Toggle(context.Background(), items, 1,
		func(a *domain.Agent, v bool) { a.IsActive = v },
		false,
		func(ctx context.Context) (*domain.Agent, error) {
			// The optimistic value must already be visible here.
			seenDuringCall = !items[0].IsActive
			return nil, errors.New("backend down")
		},
	)
	require.Error(t, err)

	assert.True(t, seenDuringCall)
	assert.True(t, items[0].IsActive, "failed toggle must restore the snapshot")
	assert.Equal(t, testAgents(), items)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "backend down")
}

func TestMutator_RollbackRestoresEverySlot(t *testing.T) {
	notifier := &recordingNotifier{}
	m := console.NewMutator(func(m domain.AIModel) int64 { return m.ID }, notifier)
	items := []domain.AIModel{
		{ID: 1, IsDefault: true},
		{ID: 2},
		{ID: 3},
	}

	err := console.SetDefaultModel(context.Background(), m, items, 3,
		func(ctx context.Context) (*domain.AIModel, error) {
			return nil, errors.New("rejected")
		},
	)
	require.Error(t, err)

	// The cascade touched models 1 and 3; both must roll back.
	assert.True(t, items[0].IsDefault)
	assert.False(t, items[2].IsDefault)
}

func TestSetDefaultModel_ExactlyOneDefault(t *testing.T) {
	notifier := &recordingNotifier{}
	m := console.NewMutator(func(m domain.AIModel) int64 { return m.ID }, notifier)
	items := []domain.AIModel{
		{ID: 1, ModelName: "a", IsDefault: true},
		{ID: 2, ModelName: "b"},
		{ID: 3, ModelName: "c"},
	}

	err := console.SetDefaultModel(context.Background(), m, items, 2,
		func(ctx context.Context) (*domain.AIModel, error) {
			return &domain.AIModel{ID: 2, ModelName: "b", IsDefault: true}, nil
		},
	)
	require.NoError(t, err)

	defaults := 0
	for _, model := range items {
		if model.IsDefault {
			defaults++
			assert.Equal(t, int64(2), model.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestMutator_SecondMutationOnSameEntityRejected(t *testing.T) {
	notifier := &recordingNotifier{}
	m := console.NewMutator(agentID, notifier)
	items := testAgents()

	release := make(chan struct{})
	firstInFlight := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- m.Toggle(context.Background(), items, 1,
			func(a *domain.Agent, v bool) { a.IsActive = v },
			false,
			func(ctx context.Context) (*domain.Agent, error) {
				close(firstInFlight)
				<-release
				return &domain.Agent{ID: 1, Name: "alpha"}, nil
			},
		)
	}()

	<-firstInFlight
	err := m.Toggle(context.Background(), items, 1,
		func(a *domain.Agent, v bool) { a.IsActive = v },
		true,
		func(ctx context.Context) (*domain.Agent, error) {
			t.Fatal("second mutation must not reach the backend")
			return nil, nil
		},
	)
	assert.ErrorIs(t, err, domain.ErrMutationInFlight)

	// A different entity is not blocked.
	err = m.Toggle(context.Background(), items, 2,
		func(a *domain.Agent, v bool) { a.IsActive = v },
		true,
		func(ctx context.Context) (*domain.Agent, error) {
			return &domain.Agent{ID: 2, Name: "beta", IsActive: true}, nil
		},
	)
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}
