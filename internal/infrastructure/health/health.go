// Package health implements the Health & Liveness component (C8) on top
// of the Cache Gateway's "processor-health" map, using per-processor
// TTL'd last-writer-wins entries exactly as spec.md §4 describes.
package health

import (
	"context"
	"encoding/json"
	"time"

	domainerrors "github.com/flowmesh-io/orchestrator/internal/domain/errors"
	"github.com/flowmesh-io/orchestrator/internal/ports"
)

const defaultMapName = "processor-health"

// Monitor implements ports.HealthMonitor against a ports.CacheGateway.
type Monitor struct {
	cache   ports.CacheGateway
	mapName string
	ttl     time.Duration
}

// New constructs a Monitor. ttl should be roughly two health-check
// intervals so one missed heartbeat does not flip a processor unhealthy.
func New(cache ports.CacheGateway, mapName string, ttl time.Duration) *Monitor {
	if mapName == "" {
		mapName = defaultMapName
	}
	return &Monitor{cache: cache, mapName: mapName, ttl: ttl}
}

func (m *Monitor) ReportHealth(ctx context.Context, processorKey string, status ports.HealthStatus, detail string) error {
	entry := ports.HealthEntry{ProcessorKey: processorKey, Status: status, LastSeen: time.Now(), Detail: detail}
	data, err := json.Marshal(entry)
	if err != nil {
		return domainerrors.New(domainerrors.CodeInternal, "marshal health entry", err)
	}
	return m.cache.Set(ctx, m.mapName, processorKey, data, m.ttl)
}

func (m *Monitor) Status(ctx context.Context, processorKey string) (ports.HealthEntry, error) {
	data, ok, err := m.cache.Get(ctx, m.mapName, processorKey)
	if err != nil {
		return ports.HealthEntry{}, err
	}
	if !ok {
		return ports.HealthEntry{ProcessorKey: processorKey, Status: ports.HealthUnknown}, nil
	}
	var entry ports.HealthEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return ports.HealthEntry{}, domainerrors.New(domainerrors.CodeInternal, "unmarshal health entry", err)
	}
	return entry, nil
}

func (m *Monitor) Unhealthy(ctx context.Context, processorKeys []string) ([]string, error) {
	var unhealthy []string
	for _, key := range processorKeys {
		entry, err := m.Status(ctx, key)
		if err != nil {
			return nil, err
		}
		if entry.Status != ports.HealthHealthy {
			unhealthy = append(unhealthy, key)
		}
	}
	return unhealthy, nil
}

var _ ports.HealthMonitor = (*Monitor)(nil)
