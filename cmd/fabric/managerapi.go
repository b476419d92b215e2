package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowmesh-io/orchestrator/internal/managerapi"
)

// newManagerAPICmd hosts the CRUD entity managers' HTTP surface (§6):
// Schema, Address, Delivery, Processor, Step, Workflow, OrchestratedFlow,
// and Assignment, each under /api/<entity>.
func newManagerAPICmd(root *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "managerapi",
		Short: "Run the entity-manager HTTP API (§6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "manager-api")
			if err != nil {
				return err
			}

			server := managerapi.NewServer(cfg, app.analyzer)
			httpServer := &http.Server{Addr: addr, Handler: server.Router()}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			app.logger.Info(ctx, "manager api listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address for the manager API")
	return cmd
}
