// Package cachemodel defines the Orchestration Cache Model (C3): the
// in-cache snapshot of a flow's step graph, per-step assignments, and
// per-step processor binding. It is built once by the scheduler and
// treated as immutable by every C5/C6 invocation thereafter.
package cachemodel

import (
	"encoding/json"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// Model is the C3 document, one per orchestratedFlowId.
type Model struct {
	StepEntities map[entity.ID]entity.Step             `json:"stepEntities"`
	Assignments  map[entity.ID][]entity.Assignment     `json:"assignments"`
	Processors   map[entity.ID]entity.Processor        `json:"processors"`
	BuiltAt      int64                                 `json:"builtAt"`
	Version      int                                   `json:"version"`
	Cancelled    bool                                  `json:"cancelled"`
}

// Step looks up a step by id, returning StepUnknown when absent.
func (m *Model) Step(stepID entity.ID) (entity.Step, error) {
	s, ok := m.StepEntities[stepID]
	if !ok {
		return entity.Step{}, domainerrors.StepUnknown(stepID.String())
	}
	return s, nil
}

// EntrySteps returns every step that is not named in any other step's
// NextStepIDs — the set seeded by the scheduler at flow start.
func EntrySteps(steps map[entity.ID]entity.Step) []entity.ID {
	referenced := make(map[entity.ID]bool, len(steps))
	for _, s := range steps {
		for _, n := range s.NextStepIDs {
			referenced[n] = true
		}
	}
	var entries []entity.ID
	for id := range steps {
		if !referenced[id] {
			entries = append(entries, id)
		}
	}
	return entries
}

// MarshalBinary satisfies encoding.BinaryMarshaler so the model can be
// stored directly as a cache blob.
func (m *Model) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalModel decodes a cache blob back into a Model.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "orchestration cache model is corrupt", err)
	}
	return &m, nil
}
