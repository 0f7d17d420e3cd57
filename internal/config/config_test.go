package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15, cfg.Simulation.FleetSize)
	assert.Equal(t, 12, cfg.Simulation.RecentCap)
	assert.Equal(t, 30*time.Second, cfg.Simulation.AnalyticsInterval)
	assert.Equal(t, 5*time.Second, cfg.Simulation.TrackingInterval)
	assert.Equal(t, 150*time.Millisecond, cfg.Simulation.OptimizeStep)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `server:
  port: 9000
  allowed_origins: ["http://localhost:3000"]
simulation:
  seed: 42
  fleet_size: 20
  tracking_interval: 10s
  optimize_step: 50ms
logging:
  level: debug
metrics:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"port", cfg.Server.Port, 9000},
		{"origins", len(cfg.Server.AllowedOrigins), 1},
		{"seed", cfg.Simulation.Seed, int64(42)},
		{"fleet_size", cfg.Simulation.FleetSize, 20},
		{"tracking_interval", cfg.Simulation.TrackingInterval, 10 * time.Second},
		{"optimize_step", cfg.Simulation.OptimizeStep, 50 * time.Millisecond},
		{"fleet_interval default", cfg.Simulation.FleetInterval, 15 * time.Second},
		{"level", cfg.Logging.Level, "debug"},
		{"metrics", cfg.Metrics.Enabled, false},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"server":{"port":7000},"simulation":{"recent_cap":5}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Simulation.RecentCap)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  port: 9000\n")
	t.Setenv("LOGI_SERVER__PORT", "9090")
	t.Setenv("LOGI_SIMULATION__TRACKING_INTERVAL", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Simulation.TrackingInterval)
}

func TestEnvOnlyOverrides(t *testing.T) {
	t.Setenv("LOGI_SERVER__PORT", "9191")
	t.Setenv("LOGI_SIMULATION__FLEET_SIZE", "20")
	t.Setenv("LOGI_SIMULATION__OPTIMIZE_STEP", "75ms")
	t.Setenv("LOGI_LOGGING__LEVEL", "warn")
	t.Setenv("LOGI_METRICS__ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Simulation.FleetSize)
	assert.Equal(t, 75*time.Millisecond, cfg.Simulation.OptimizeStep)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "port = 1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "simulation:\n  tracking_interval: 7s\n"))
	assert.ErrorContains(t, err, "tracking_interval")

	_, err = Load(writeFile(t, "bad.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "unknown level")

	_, err = Load(writeFile(t, "bad.yaml", "simulation:\n  recent_cap: 13\n"))
	assert.ErrorContains(t, err, "recent_cap")

	_, err = Load(writeFile(t, "bad.yaml", "server:\n  port: 70000\n"))
	assert.ErrorContains(t, err, "out of range")
}
