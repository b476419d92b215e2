package entity

import domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"

// Workflow is a named set of steps; the graph is implicit via each step's
// NextStepIDs. Steps referenced by StepIDs must exist — checked by the
// manager layer, which has the wider entity graph.
type Workflow struct {
	ID      ID     `json:"id"`
	Version int    `json:"version"`
	Name    string `json:"name"`
	StepIDs []ID   `json:"stepIds"`
}

func (w Workflow) Validate() error {
	if w.Name == "" {
		return domainerrors.ValidationFailure("workflow name is required", nil)
	}
	if len(w.StepIDs) == 0 {
		return domainerrors.ValidationFailure("workflow must reference at least one step", map[string]interface{}{"workflow": w.Name})
	}
	return nil
}

// OrchestratedFlow pins a concrete Workflow to a set of assignments and
// optionally schedules its execution.
type OrchestratedFlow struct {
	ID            ID      `json:"id"`
	WorkflowID    ID      `json:"workflowId"`
	AssignmentIDs []ID    `json:"assignmentIds"`
	Schedule      *string `json:"schedule,omitempty"`
}

func (f OrchestratedFlow) Validate() error {
	if f.WorkflowID == ZeroID {
		return domainerrors.ValidationFailure("orchestratedFlow workflowId is required", nil)
	}
	return nil
}
