package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/tui/dashboard"
)

// newDashboardCmd hosts the flow-monitor TUI, polling the Cache Gateway
// for the watched orchestrated flows' C3 models and their processors'
// last-reported health.
func newDashboardCmd(root *rootFlags) *cobra.Command {
	var flowIDs []string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Watch orchestrated flow progress and processor health in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "dashboard")
			if err != nil {
				return err
			}

			ids := make([]entity.ID, 0, len(flowIDs))
			for _, raw := range flowIDs {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				id, err := entity.ParseID(raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			model := dashboard.New(app.models, app.health, ids)
			program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringSliceVar(&flowIDs, "flow", nil, "Orchestrated flow id to watch (repeatable)")
	return cmd
}
