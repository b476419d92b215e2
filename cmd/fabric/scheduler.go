package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/correlation"
	"github.com/flowmesh-io/orchestrator/internal/orchestration"
)

type schedulerFlags struct {
	flowID   string
	interval time.Duration
	serve    bool
	addr     string
}

// newSchedulerCmd wires the Scheduler (C4). It admits flow starts from
// three convergent triggers per spec.md §4.4: an explicit one-shot start
// (--flow with no --interval), a periodic timer (--interval), and an
// HTTP start API (--serve), mirroring the teacher's cmd/streamy/apply.go
// flag-driven single-purpose subcommand shape.
func newSchedulerCmd(root *rootFlags) *cobra.Command {
	flags := &schedulerFlags{}

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Admit orchestrated-flow starts (C4)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			app, err := newAppContext(cfg, "scheduler")
			if err != nil {
				return err
			}

			scheduler := orchestration.NewScheduler(app.manager, app.models, app.bus, app.health, app.metrics, app.logger).WithEvents(app.events)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if flags.serve {
				return serveStartAPI(ctx, flags.addr, scheduler, app)
			}

			flowID, err := entity.ParseID(flags.flowID)
			if err != nil {
				return err
			}
			if flags.interval <= 0 {
				return scheduler.Start(ctx, flowID, correlation.New())
			}
			return runPeriodic(ctx, flags.interval, func() error {
				return scheduler.Start(ctx, flowID, correlation.New())
			}, app)
		},
	}

	cmd.Flags().StringVar(&flags.flowID, "flow", "", "OrchestratedFlow id to admit")
	cmd.Flags().DurationVar(&flags.interval, "interval", 0, "Quartz-like periodic admission interval; 0 admits once")
	cmd.Flags().BoolVar(&flags.serve, "serve", false, "Expose an HTTP start API instead of a timer/one-shot admission")
	cmd.Flags().StringVar(&flags.addr, "addr", ":8090", "Listen address for --serve")

	return cmd
}

func runPeriodic(ctx context.Context, interval time.Duration, tick func() error, app *appContext) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := tick(); err != nil {
				app.logger.Error(ctx, "periodic flow admission failed", "error", err.Error())
			}
		}
	}
}

// serveStartAPI exposes the external-caller start trigger from spec.md
// §4.4(c): POST /flows/{id}/start admits one flow, correlation id taken
// from the request header or generated fresh.
func serveStartAPI(ctx context.Context, addr string, scheduler *orchestration.Scheduler, app *appContext) error {
	r := chi.NewRouter()
	r.Post("/flows/{id}/start", func(w http.ResponseWriter, req *http.Request) {
		flowID, err := entity.ParseID(chi.URLParam(req, "id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		corrID := req.Header.Get(correlation.HeaderName)
		if corrID == "" {
			corrID = correlation.New()
		}
		if err := scheduler.Start(req.Context(), flowID, corrID); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	server := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	app.logger.Info(ctx, "scheduler start API listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
