package ports

import "context"

// MetricsCollector records quantitative observability signals. The interface is
// intentionally generic so adapters can back onto Prometheus, StatsD, or
// vendor-specific SDKs. The metrics this repo records are all counters:
//   - fabric_flow_started_total{orchestratedFlowId}
//   - fabric_activity_fanout_published_total{stepId}
//   - fabric_branch_terminated_total{stepId}
//
// No gauge or histogram is recorded by the fabric's components.
type MetricsCollector interface {
	IncCounter(ctx context.Context, name string, labels map[string]string)
	SetGauge(ctx context.Context, name string, value float64, labels map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string)
}
