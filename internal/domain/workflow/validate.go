// Package workflow analyses a Workflow's step graph, optionally refusing
// cyclic graphs. The runtime engine
// itself tolerates cycles (spec.md §9); this validator is an opt-in check
// exposed to the Workflow manager's create/update path only.
package workflow

import (
	"sort"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
)

// ValidateAcyclic reports an error if steps contains a cycle reachable
// from any step's NextStepIDs, using Kahn's algorithm: steps whose
// indegree never reaches zero are part of (or downstream of) a cycle.
func ValidateAcyclic(steps map[entity.ID]entity.Step) error {
	indegree := make(map[entity.ID]int, len(steps))
	for id := range steps {
		indegree[id] = 0
	}
	for _, s := range steps {
		for _, next := range s.NextStepIDs {
			if _, ok := steps[next]; !ok {
				continue
			}
			indegree[next]++
		}
	}

	var queue []entity.ID
	for id, degree := range indegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sortIDs(queue)

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++
		for _, next := range steps[id].NextStepIDs {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
				sortIDs(queue)
			}
		}
	}

	if processed != len(steps) {
		return domainerrors.ValidationFailure("workflow contains a cycle", nil)
	}
	return nil
}

func sortIDs(ids []entity.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
