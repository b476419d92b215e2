package processor

import (
	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// findPluginAssignment locates the Plugin-kind assignment among a
// command's entities — the one naming the activity this runtime must
// invoke. A step may carry Address/Delivery assignments alongside it;
// those are passed through to the activity as resolved entities, not
// consulted here.
func findPluginAssignment(cmd ports.ExecuteActivityCommand) *entity.Plugin {
	for _, a := range cmd.Entities {
		if a.Kind == entity.AssignmentKindPlugin && a.Plugin != nil {
			return a.Plugin
		}
	}
	return nil
}
