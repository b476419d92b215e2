package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fabric",
		Short:         "Orchestration fabric: scheduler, consumers, processor runtime, and entity managers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "fabric.yaml", "Path to the fabric process configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newSchedulerCmd(flags))
	cmd.AddCommand(newCancelCmd(flags))
	cmd.AddCommand(newConsumerCmd(flags))
	cmd.AddCommand(newProcessorCmd(flags))
	cmd.AddCommand(newManagerAPICmd(flags))
	cmd.AddCommand(newDashboardCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
