// Package frame holds the six-ID execution frame threaded through every
// cache key, bus message, log record, and metric tag in the orchestration
// fabric.
package frame

import "github.com/flowmesh-io/orchestrator/internal/domain/entity"

// Frame is the hierarchical identity of one in-flight activity execution.
// It is never persisted on its own; it is carried inline on bus messages
// and derived into cache keys.
type Frame struct {
	OrchestratedFlowID entity.ID `json:"orchestratedFlowId"`
	WorkflowID         entity.ID `json:"workflowId"`
	CorrelationID      string    `json:"correlationId"`
	StepID             entity.ID `json:"stepId"`
	ProcessorID        entity.ID `json:"processorId"`
	ExecutionID        entity.ID `json:"executionId"`
	PublishID          entity.ID `json:"publishId"`
}

// WithStep returns a copy of f addressing a different step, processor, and
// publish id — the shape of a fan-out child frame, keeping the parent's
// orchestratedFlow/workflow/correlation/execution identity.
func (f Frame) WithStep(stepID, processorID, publishID entity.ID) Frame {
	next := f
	next.StepID = stepID
	next.ProcessorID = processorID
	next.PublishID = publishID
	return next
}

// Fields renders the frame as a flat map suitable for structured log
// records and metric tag sets.
func (f Frame) Fields() map[string]interface{} {
	return map[string]interface{}{
		"orchestratedFlowId": f.OrchestratedFlowID,
		"workflowId":         f.WorkflowID,
		"correlationId":      f.CorrelationID,
		"stepId":             f.StepID,
		"processorId":        f.ProcessorID,
		"executionId":        f.ExecutionID,
		"publishId":          f.PublishID,
	}
}
