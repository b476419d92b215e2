// Package condition evaluates a Step's entry condition against an
// observed upstream activity status. It is pure and side-effect free so
// the graph-progression algorithm in C5/C6 can unit test it in isolation
// from the cache and bus gateways.
package condition

import "github.com/flowmesh-io/orchestrator/internal/domain/entity"

// Status is the observed terminal status of an upstream activity.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusCancelled  Status = "Cancelled"
)

// Evaluate reports whether an edge with the given entry condition fires
// for the observed status. Unknown conditions never fire.
func Evaluate(c entity.EntryCondition, status Status) bool {
	switch c {
	case entity.PreviousProcessing:
		return status == StatusProcessing
	case entity.PreviousCompleted:
		return status == StatusCompleted
	case entity.PreviousFailed:
		return status == StatusFailed
	case entity.PreviousCancelled:
		return status == StatusCancelled
	case entity.Always:
		return true
	case entity.Never:
		return false
	default:
		return false
	}
}
