package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

func TestValidateAcyclic_AcceptsLinearGraph(t *testing.T) {
	t.Parallel()

	a, b, c := entity.NewID(), entity.NewID(), entity.NewID()
	steps := map[entity.ID]entity.Step{
		a: {ID: a, NextStepIDs: []entity.ID{b}},
		b: {ID: b, NextStepIDs: []entity.ID{c}},
		c: {ID: c},
	}
	require.NoError(t, ValidateAcyclic(steps))
}

func TestValidateAcyclic_RejectsCycle(t *testing.T) {
	t.Parallel()

	a, b := entity.NewID(), entity.NewID()
	steps := map[entity.ID]entity.Step{
		a: {ID: a, NextStepIDs: []entity.ID{b}},
		b: {ID: b, NextStepIDs: []entity.ID{a}},
	}
	require.Error(t, ValidateAcyclic(steps))
}

func TestValidateAcyclic_AcceptsFanOut(t *testing.T) {
	t.Parallel()

	a, b, c, d := entity.NewID(), entity.NewID(), entity.NewID(), entity.NewID()
	steps := map[entity.ID]entity.Step{
		a: {ID: a, NextStepIDs: []entity.ID{b, c, d}},
		b: {ID: b},
		c: {ID: c},
		d: {ID: d},
	}
	require.NoError(t, ValidateAcyclic(steps))
}
