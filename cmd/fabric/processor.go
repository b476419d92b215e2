package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/plugins"
	"github.com/flowmesh-io/orchestrator/internal/plugins/exec"
	"github.com/flowmesh-io/orchestrator/internal/plugins/filereader"
	"github.com/flowmesh-io/orchestrator/internal/plugins/filewriter"
	"github.com/flowmesh-io/orchestrator/internal/plugins/gitsync"
	"github.com/flowmesh-io/orchestrator/internal/processor"
)

type processorFlags struct {
	processorName    string
	processorVersion int
	gitWorkDir       string
}

// newProcessorCmd runs the Processor Runtime (C7) for one processor
// (version,name) queue key. The Activity registry is seeded with the
// fabric's example activities (filereader, filewriter, gitsync, exec);
// a real deployment registers additional assembly/typeName pairs per
// spec.md §9's dynamic plugin loading note, out of scope here.
func newProcessorCmd(root *rootFlags) *cobra.Command {
	flags := &processorFlags{}

	cmd := &cobra.Command{
		Use:   "processor",
		Short: "Run the processor runtime (C7) for one processor composite key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "processor-runtime")
			if err != nil {
				return err
			}

			registry := plugins.NewRegistry()
			seedActivities(registry, flags.gitWorkDir)

			queueKey := entity.CompositeKeyOf(flags.processorName, flags.processorVersion)
			runtime := processor.NewRuntime(queueKey, registry, app.cache, app.validator, app.manager, app.bus, cfg.ProcessorActivityDataCache.MapName, app.logger).WithDomainEvents(app.events)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go reportHeartbeat(ctx, app, queueKey, cfg.ProcessorHealthMonitor.Interval())

			app.logger.Info(ctx, "processor runtime started", "queueKey", queueKey)
			return runtime.Run(ctx, app.bus)
		},
	}

	cmd.Flags().StringVar(&flags.processorName, "name", "", "Processor name (composite key component)")
	cmd.Flags().IntVar(&flags.processorVersion, "processor-version", 1, "Processor version (composite key component)")
	cmd.Flags().StringVar(&flags.gitWorkDir, "gitsync-workdir", "/var/lib/fabric/gitsync", "Working directory for the gitsync example activity's checkouts")

	return cmd
}

func seedActivities(registry *plugins.Registry, gitWorkDir string) {
	_ = registry.Register("fabric.activities", "filereader", filereader.New())
	_ = registry.Register("fabric.activities", "filewriter", filewriter.New())
	_ = registry.Register("fabric.activities", "gitsync", gitsync.New(gitWorkDir))
	_ = registry.Register("fabric.activities", "exec", exec.New())
}
