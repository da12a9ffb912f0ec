package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "suspend", cfg.DefaultSleepType)
	assert.Equal(t, 15*time.Second, cfg.ActionTimeout())
	assert.Equal(t, 5*time.Minute, cfg.WakeDelay())
	assert.Equal(t, time.Duration(0), cfg.InitialDelay())
	assert.True(t, cfg.Cycle)
	assert.Equal(t, 5*time.Minute, cfg.RatesInterval())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
default_sleep_type: hibernate
sleep_command_timeout: 30
wake_delay_minutes: 10
cycle: false
listen_addr: "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hibernate", cfg.DefaultSleepType)
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout())
	assert.Equal(t, 10*time.Minute, cfg.WakeDelay())
	assert.False(t, cfg.Cycle)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "sleepctl.log", cfg.LogFile)
	assert.Equal(t, 300, cfg.RatesIntervalSeconds)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
default_sleep_type: hibernate
log_file: from-file.log
`)
	t.Setenv("SLEEPCTL_SLEEP_TYPE", "hybrid-sleep")
	t.Setenv("SLEEPCTL_LOG_FILE", "from-env.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hybrid-sleep", cfg.DefaultSleepType)
	assert.Equal(t, "from-env.log", cfg.LogFile)
}

func TestLoadExplicitMissingPathIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "default_sleep_type: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadNoFileMeansDefaults(t *testing.T) {
	// Point the home directory somewhere empty so no default config exists.
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
