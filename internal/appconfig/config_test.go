package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
cacheUrl: redis://localhost:6379/0
busUrl: redis://localhost:6379/0
managerConfiguration:
  name: scheduler
  version: "1.0.0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "X-Correlation-ID", cfg.CorrelationHeaderName)
	require.Equal(t, "processor-health", cfg.OrchestratorHealthMonitor.CacheMapName)
	require.Equal(t, "processor-activity", cfg.ProcessorActivityDataCache.MapName)
}

func TestLoad_RejectsMissingRequiredFields(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
managerConfiguration:
  name: scheduler
  version: "1.0.0"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestProcessorHealthMonitor_DefaultInterval(t *testing.T) {
	t.Parallel()

	var p ProcessorHealthMonitor
	require.Equal(t, int64(30), p.Interval().Milliseconds()/1000)
}
