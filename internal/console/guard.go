package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/dootask/assetsctl/internal/domain"
)

// ReferenceGuard runs the pre-delete check for entities other entities may
// reference by id: models, tools and knowledge bases referenced from agents.
// It is a UX safety net against silently orphaning references, not a
// correctness guarantee; the backend enforces nothing, and the guard never
// repairs or cascade-nulls dangling references after deletion.
type ReferenceGuard struct {
	fetchAgents func(ctx context.Context) ([]domain.Agent, error)
	confirmer   Confirmer
	notifier    Notifier
}

// NewReferenceGuard creates a guard. fetchAgents must return the COMPLETE
// agent set (every page), otherwise references beyond the first page would be
// missed.
func NewReferenceGuard(
	fetchAgents func(ctx context.Context) ([]domain.Agent, error),
	confirmer Confirmer,
	notifier Notifier,
) *ReferenceGuard {
	return &ReferenceGuard{
		fetchAgents: fetchAgents,
		confirmer:   confirmer,
		notifier:    notifier,
	}
}

// DeleteOutcome reports what a guarded delete did.
type DeleteOutcome struct {
	Deleted    bool
	Dependents []string
}

// Delete runs the full guarded-delete flow for the entity kind/id named
// targetName:
//
//  1. Fetch all agents. If this fails, abort with an error; never fall
//     through to an unguarded delete.
//  2. Collect the agents referencing the target. Reference fields that are
//     absent or unparseable count as no references.
//  3. Confirm with the operator, enumerating dependents when there are any.
//  4. Only on explicit confirmation call del; report the blast radius on
//     success.
//
// Cancelling is not an error: the outcome has Deleted=false.
func (g *ReferenceGuard) Delete(
	ctx context.Context,
	kind domain.ReferenceKind,
	id int64,
	targetName string,
	del func(ctx context.Context) error,
) (*DeleteOutcome, error) {
	agents, err := g.fetchAgents(ctx)
	if err != nil {
		g.notifier.Error(fmt.Sprintf("cannot check references for %s: %v", targetName, err))
		return nil, fmt.Errorf("reference pre-check: %w", err)
	}

	var dependents []string
	for i := range agents {
		if agents[i].References(kind, id) {
			dependents = append(dependents, agents[i].Name)
		}
	}

	prompt := fmt.Sprintf("Delete %s?", targetName)
	if len(dependents) > 0 {
		prompt = fmt.Sprintf(
			"%s is referenced by %d agent(s): %s. Deleting it leaves those references dangling. Delete anyway?",
			targetName, len(dependents), strings.Join(dependents, ", "),
		)
	}

	confirmed, err := g.confirmer.Confirm(prompt)
	if err != nil {
		return nil, fmt.Errorf("confirm delete: %w", err)
	}
	if !confirmed {
		return &DeleteOutcome{Deleted: false, Dependents: dependents}, nil
	}

	if err := del(ctx); err != nil {
		g.notifier.Error(fmt.Sprintf("delete %s: %v", targetName, err))
		return nil, err
	}

	if len(dependents) > 0 {
		g.notifier.Success(fmt.Sprintf("%s deleted; %d agent(s) now hold dangling references", targetName, len(dependents)))
	} else {
		g.notifier.Success(fmt.Sprintf("%s deleted", targetName))
	}
	return &DeleteOutcome{Deleted: true, Dependents: dependents}, nil
}
