package console

import (
	"context"
	"slices"
	"sync"

	"github.com/dootask/assetsctl/internal/domain"
)

// Mutator applies optimistic mutations to an in-memory entity list: the local
// guess is visible before the network call resolves, a success replaces the
// guess with the exact server-returned entity, and a failure restores the
// pre-mutation snapshot and emits an error notification.
//
// A keyed in-flight slot per entity id prevents a second mutation from
// applying against a stale snapshot of the same entity; mutations on
// different entities stay independent.
type Mutator[T any] struct {
	id       func(T) int64
	notifier Notifier

	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewMutator creates a Mutator. id extracts the entity id used for both the
// in-flight gate and locating the server entity in the list.
func NewMutator[T any](id func(T) int64, notifier Notifier) *Mutator[T] {
	return &Mutator[T]{
		id:       id,
		notifier: notifier,
		inflight: make(map[int64]struct{}),
	}
}

func (m *Mutator[T]) acquire(targetID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[targetID]; busy {
		return false
	}
	m.inflight[targetID] = struct{}{}
	return true
}

func (m *Mutator[T]) release(targetID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, targetID)
}

// Mutate runs one optimistic mutation against items in place.
//
// applyLocal mutates the slice immediately (it may touch entities other than
// the target, e.g. clearing is_default everywhere before setting a new
// default). call performs the backend update and returns the stored target
// entity. On success the target slot is overwritten with the server entity;
// on failure every slot is restored from the pre-mutation snapshot.
func (m *Mutator[T]) Mutate(
	ctx context.Context,
	items []T,
	targetID int64,
	applyLocal func(items []T),
	call func(ctx context.Context) (*T, error),
) error {
	if !m.acquire(targetID) {
		return domain.ErrMutationInFlight
	}
	defer m.release(targetID)

	snapshot := slices.Clone(items)
	applyLocal(items)

	server, err := call(ctx)
	if err != nil {
		copy(items, snapshot)
		m.notifier.Error(err.Error())
		return err
	}

	for i := range items {
		if m.id(items[i]) == targetID {
			items[i] = *server
			break
		}
	}
	return nil
}

// Toggle flips a boolean field optimistically. set writes the new value onto
// an entity; call issues the backend update.
func (m *Mutator[T]) Toggle(
	ctx context.Context,
	items []T,
	targetID int64,
	set func(*T, bool),
	value bool,
	call func(ctx context.Context) (*T, error),
) error {
	return m.Mutate(ctx, items, targetID, func(items []T) {
		for i := range items {
			if m.id(items[i]) == targetID {
				set(&items[i], value)
				return
			}
		}
	}, call)
}

// SetDefaultModel marks one model as the default, optimistically clearing the
// flag on every other cached model to keep the at-most-one invariant visible
// before the backend cascade lands.
func SetDefaultModel(
	ctx context.Context,
	m *Mutator[domain.AIModel],
	items []domain.AIModel,
	targetID int64,
	call func(ctx context.Context) (*domain.AIModel, error),
) error {
	return m.Mutate(ctx, items, targetID, func(items []domain.AIModel) {
		for i := range items {
			items[i].IsDefault = items[i].ID == targetID
		}
	}, call)
}
