package main

import (
	"context"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/ports"
)

// reportHeartbeat writes a Healthy health entry for queueKey on every tick
// until ctx is cancelled, the processor side of the Health & Liveness
// component (C8) the scheduler's admission gate consults.
func reportHeartbeat(ctx context.Context, app *appContext, queueKey string, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	report := func() {
		if err := app.health.ReportHealth(ctx, queueKey, ports.HealthHealthy, ""); err != nil {
			app.logger.Warn(ctx, "health heartbeat failed", "queueKey", queueKey, "error", err.Error())
		}
	}
	report()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report()
		}
	}
}
