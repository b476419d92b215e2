package entity

import (
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// EntryCondition is the predicate evaluated against an upstream activity's
// terminal status to decide whether an edge fires. See
// internal/domain/condition for the evaluation function.
type EntryCondition string

const (
	PreviousProcessing EntryCondition = "PreviousProcessing"
	PreviousCompleted  EntryCondition = "PreviousCompleted"
	PreviousFailed     EntryCondition = "PreviousFailed"
	PreviousCancelled  EntryCondition = "PreviousCancelled"
	Always             EntryCondition = "Always"
	Never              EntryCondition = "Never"
)

// Step is a node in a workflow graph, bound to one processor and one entry
// condition. A Step with an empty NextStepIDs is a terminal branch.
type Step struct {
	ID            ID             `json:"id"`
	ProcessorID   ID             `json:"processorId"`
	NextStepIDs   []ID           `json:"nextStepIds"`
	EntryCondition EntryCondition `json:"entryCondition"`
}

// IsTerminal reports whether this step has no successors.
func (s Step) IsTerminal() bool {
	return len(s.NextStepIDs) == 0
}

func (s Step) Validate() error {
	switch s.EntryCondition {
	case PreviousProcessing, PreviousCompleted, PreviousFailed, PreviousCancelled, Always, Never:
	default:
		return domainerrors.ValidationFailure("step entryCondition is invalid", map[string]interface{}{"entryCondition": string(s.EntryCondition)})
	}
	if s.ProcessorID == ZeroID {
		return domainerrors.ValidationFailure("step processorId is required", nil)
	}
	return nil
}
