package main

import (
	"github.com/spf13/cobra"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

type cancelFlags struct {
	flowID string
}

// newCancelCmd implements the out-of-band cancellation command spec.md
// §5 calls for: it sets the cancellation tombstone on a flow's C3
// document so C5/C6 refuse new fan-outs, without pre-empting in-flight
// plugin executions. Mirrors newSchedulerCmd's one-shot, flag-driven
// shape rather than the scheduler's serve/periodic modes since
// cancellation is always a single explicit act.
func newCancelCmd(root *rootFlags) *cobra.Command {
	flags := &cancelFlags{}

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Mark an orchestrated flow cancelled (spec.md §5)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "cancel")
			if err != nil {
				return err
			}

			flowID, err := entity.ParseID(flags.flowID)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.models.MarkCancelled(ctx, flowID); err != nil {
				return err
			}
			if app.events != nil {
				_ = app.events.Publish(ctx, newCancelEvent(flowID))
			}
			app.logger.Info(ctx, "orchestrated flow cancelled", "orchestratedFlowId", flowID.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.flowID, "flow", "", "OrchestratedFlow id to cancel")

	return cmd
}

type cancelDomainEvent struct {
	flowID entity.ID
}

func (e cancelDomainEvent) EventType() string { return ports.EventFlowCancelled }
func (e cancelDomainEvent) Payload() interface{} {
	return map[string]interface{}{"orchestratedFlowId": e.flowID.String()}
}

func newCancelEvent(flowID entity.ID) ports.DomainEvent {
	return cancelDomainEvent{flowID: flowID}
}
