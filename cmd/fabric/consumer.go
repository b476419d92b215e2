package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flowmesh-io/orchestrator/internal/orchestration"
)

// newConsumerCmd runs the Activity-Completion Consumer (C5) and
// Activity-Failure Consumer (C6) side by side in one process: both share
// the same orchestration.Consumer instance (spec.md §4.5 "near-mirror
// state machines... bodies identical"), each bound to its own bus
// subscription.
func newConsumerCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consumer",
		Short: "Run the activity-completion and activity-failure consumers (C5/C6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "orchestration-consumer")
			if err != nil {
				return err
			}

			consumer := orchestration.NewConsumer(app.models, app.cache, app.bus, cfg.ProcessorActivityDataCache.MapName, app.metrics, app.logger).WithEvents(app.events)
			completion := orchestration.NewCompletionConsumer(consumer)
			failure := orchestration.NewFailureConsumer(consumer)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			group, gctx := errgroup.WithContext(ctx)
			group.Go(func() error { return completion.Run(gctx, app.bus) })
			group.Go(func() error { return failure.Run(gctx, app.bus) })

			app.logger.Info(ctx, "orchestration consumers started")
			return group.Wait()
		},
	}
	return cmd
}
