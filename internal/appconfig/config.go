// Package appconfig loads the orchestration fabric's own process
// configuration (distinct from the teacher's pipeline-definition
// config): feature switches, manager base URLs, health-monitor
// intervals, and cache/bus map names. Parsing follows the same
// YAML-then-validate shape as the teacher's internal/config package.
package appconfig

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/flowmesh-io/orchestrator/pkg/errors"
)

// Config is the full process configuration document (spec.md §6
// "Recognised keys").
type Config struct {
	Features               Features               `yaml:"features"`
	ReferentialIntegrity    ReferentialIntegrity   `yaml:"referentialIntegrity"`
	SchemaValidation        SchemaValidation       `yaml:"schemaValidation"`
	ManagerUrls             ManagerUrls            `yaml:"managerUrls"`
	ProcessorHealthMonitor  ProcessorHealthMonitor `yaml:"processorHealthMonitor"`
	ProcessorInitialization ProcessorInit          `yaml:"processorInitialization"`
	OrchestratorHealthMonitor OrchestratorHealthMonitor `yaml:"orchestratorHealthMonitor"`
	ProcessorActivityDataCache ProcessorActivityDataCache `yaml:"processorActivityDataCache"`
	ManagerConfiguration    ManagerConfiguration   `yaml:"managerConfiguration"`
	CorrelationHeaderName   string                 `yaml:"correlationHeaderName" validate:"omitempty"`
	CacheURL                string                 `yaml:"cacheUrl" validate:"required"`
	BusURL                  string                 `yaml:"busUrl" validate:"required"`
	HTTPAddr                string                 `yaml:"httpAddr" validate:"omitempty"`
	LogLevel                string                 `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

// Features is the master switch block (spec.md §6).
type Features struct {
	ReferentialIntegrityValidation bool `yaml:"referentialIntegrityValidation"`
	RejectCyclicWorkflows          bool `yaml:"rejectCyclicWorkflows"`
}

// ReferentialIntegrity lists per-entity reference-check switches.
type ReferentialIntegrity struct {
	ValidateAssignmentReferences bool `yaml:"validateAssignmentReferences"`
	ValidateSchemaReferences     bool `yaml:"validateSchemaReferences"`
	ValidateStepReferences       bool `yaml:"validateStepReferences"`
	ValidateWorkflowReferences   bool `yaml:"validateWorkflowReferences"`
}

// SchemaValidation toggles input/output validation independently.
type SchemaValidation struct {
	EnableInputValidation  bool `yaml:"enableInputValidation"`
	EnableOutputValidation bool `yaml:"enableOutputValidation"`
}

// ManagerUrls carries the base URL for each entity manager's HTTP API.
type ManagerUrls struct {
	Schema           string `yaml:"schema" validate:"omitempty,url"`
	Address          string `yaml:"address" validate:"omitempty,url"`
	Delivery         string `yaml:"delivery" validate:"omitempty,url"`
	Processor        string `yaml:"processor" validate:"omitempty,url"`
	Step             string `yaml:"step" validate:"omitempty,url"`
	Workflow         string `yaml:"workflow" validate:"omitempty,url"`
	OrchestratedFlow string `yaml:"orchestratedFlow" validate:"omitempty,url"`
	Assignment       string `yaml:"assignment" validate:"omitempty,url"`
}

// ProcessorHealthMonitor configures the heartbeat interval used both by
// processor instances reporting health and by C8's TTL.
type ProcessorHealthMonitor struct {
	HealthCheckIntervalSeconds int `yaml:"healthCheckIntervalSeconds" validate:"omitempty,min=1"`
}

func (p ProcessorHealthMonitor) Interval() time.Duration {
	if p.HealthCheckIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.HealthCheckIntervalSeconds) * time.Second
}

// ProcessorInit controls processor startup retry behaviour.
type ProcessorInit struct {
	RetryEndlessly bool `yaml:"retryEndlessly"`
}

// OrchestratorHealthMonitor names the cache map C8 uses.
type OrchestratorHealthMonitor struct {
	CacheMapName string `yaml:"cacheMapName"`
}

// ProcessorActivityDataCache names the cache map processor-activity blobs use.
type ProcessorActivityDataCache struct {
	MapName string `yaml:"mapName"`
}

// ManagerConfiguration is this process' own identity. Load requires both
// fields; no component reads them afterwards.
type ManagerConfiguration struct {
	Name    string `yaml:"name" validate:"required"`
	Version string `yaml:"version" validate:"required"`
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Load reads and validates a YAML configuration file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pkgerrors.NewParseError(path, 0, err)
	}

	applyDefaults(&cfg)

	if err := validatorInstance().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.CorrelationHeaderName == "" {
		cfg.CorrelationHeaderName = "X-Correlation-ID"
	}
	if cfg.OrchestratorHealthMonitor.CacheMapName == "" {
		cfg.OrchestratorHealthMonitor.CacheMapName = "processor-health"
	}
	if cfg.ProcessorActivityDataCache.MapName == "" {
		cfg.ProcessorActivityDataCache.MapName = "processor-activity"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
