package cachemodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

func TestEntrySteps_FindsUnreferencedRoots(t *testing.T) {
	t.Parallel()

	a, b, c := entity.NewID(), entity.NewID(), entity.NewID()
	steps := map[entity.ID]entity.Step{
		a: {ID: a, NextStepIDs: []entity.ID{b}},
		b: {ID: b, NextStepIDs: []entity.ID{c}},
		c: {ID: c},
	}

	entries := EntrySteps(steps)
	require.ElementsMatch(t, []entity.ID{a}, entries)
}

func TestEntrySteps_MultipleRoots(t *testing.T) {
	t.Parallel()

	a, b, c := entity.NewID(), entity.NewID(), entity.NewID()
	steps := map[entity.ID]entity.Step{
		a: {ID: a, NextStepIDs: []entity.ID{c}},
		b: {ID: b, NextStepIDs: []entity.ID{c}},
		c: {ID: c},
	}

	entries := EntrySteps(steps)
	require.ElementsMatch(t, []entity.ID{a, b}, entries)
}

func TestModel_StepUnknownIsAFatalError(t *testing.T) {
	t.Parallel()

	m := &Model{StepEntities: map[entity.ID]entity.Step{}}
	_, err := m.Step(entity.NewID())
	require.Error(t, err)
}
