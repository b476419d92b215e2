package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flowmesh-io/orchestrator/internal/appconfig"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/bus"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/cache"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/events"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/health"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/logging"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/managerclient"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/metrics"
	"github.com/flowmesh-io/orchestrator/internal/infrastructure/schemavalidation"
	"github.com/flowmesh-io/orchestrator/internal/orchestration"
	"github.com/flowmesh-io/orchestrator/internal/ports"
	"github.com/flowmesh-io/orchestrator/internal/schema"
	"github.com/google/uuid"
)

// appContext wires every ambient and domain-stack dependency shared by
// the fabric's runnable modes, adapted from the teacher's
// cmd/streamy/app_context.go composition-root pattern.
type appContext struct {
	cfg      *appconfig.Config
	logger   ports.Logger
	metrics  ports.MetricsCollector
	cache    *cache.Gateway
	bus      *bus.Gateway
	health   *health.Monitor
	manager  *managerclient.Client
	models   *orchestration.ModelStore
	analyzer  *schema.Analyzer
	validator *schemavalidation.Validator
	events    *events.LoggingPublisher
}

func newAppContext(cfg *appconfig.Config, component string) (*appContext, error) {
	logger, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Layer:     "infrastructure",
		Component: component,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	cacheGateway, err := cache.New(cfg.CacheURL)
	if err != nil {
		return nil, fmt.Errorf("connect cache gateway: %w", err)
	}

	consumerName := component + "-" + uuid.NewString()
	busGateway, err := bus.New(cfg.BusURL, consumerName)
	if err != nil {
		return nil, fmt.Errorf("connect bus gateway: %w", err)
	}

	collector := metrics.New(nil, "fabric")
	healthMonitor := health.New(cacheGateway, cfg.OrchestratorHealthMonitor.CacheMapName, 2*cfg.ProcessorHealthMonitor.Interval())
	managerClient := managerclient.New(cfg.ManagerUrls, &http.Client{Timeout: 15 * time.Second}, logger)
	models := orchestration.NewModelStore(cacheGateway, "orchestration-data", 0)

	return &appContext{
		cfg:       cfg,
		logger:    logger,
		metrics:   collector,
		cache:     cacheGateway,
		bus:       busGateway,
		health:    healthMonitor,
		manager:   managerClient,
		models:    models,
		analyzer:  schema.New(),
		validator: schemavalidation.New(),
		events:    events.NewLoggingPublisher(logger),
	}, nil
}

func loadConfig(path string) (*appconfig.Config, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
