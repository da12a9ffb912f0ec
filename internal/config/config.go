package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-backed configuration. Precedence is CLI flag > env >
// config file > defaults; flags are applied by the commands on top of what
// Load returns.
type Config struct {
	DefaultSleepType     string `yaml:"default_sleep_type"`
	SleepCommandTimeout  int    `yaml:"sleep_command_timeout"` // seconds
	WakeDelayMinutes     int    `yaml:"wake_delay_minutes"`
	DefaultDelayMinutes  int    `yaml:"default_delay_minutes"`
	Cycle                bool   `yaml:"cycle"`
	PreventSleepReason   string `yaml:"prevent_sleep_reason"`
	LogFile              string `yaml:"log_file"`
	ListenAddr           string `yaml:"listen_addr"`
	RatesURL             string `yaml:"rates_url"`
	RatesIntervalSeconds int    `yaml:"rates_interval_seconds"`
}

// Default returns the hardcoded defaults.
func Default() *Config {
	return &Config{
		DefaultSleepType:     "suspend",
		SleepCommandTimeout:  15,
		WakeDelayMinutes:     5,
		DefaultDelayMinutes:  0,
		Cycle:                true,
		PreventSleepReason:   "User requested via sleepctl",
		LogFile:              "sleepctl.log",
		RatesURL:             "https://open.er-api.com/v6/latest/USD",
		RatesIntervalSeconds: 300,
	}
}

// Load resolves configuration from the config file and environment. An
// explicit path that cannot be read is an error; a missing file at the
// default location just means defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		case explicit:
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	// Environment overrides the file.
	if v := os.Getenv("SLEEPCTL_SLEEP_TYPE"); v != "" {
		cfg.DefaultSleepType = v
	}
	if v := os.Getenv("SLEEPCTL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SLEEPCTL_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SLEEPCTL_RATES_URL"); v != "" {
		cfg.RatesURL = v
	}

	return cfg, nil
}

// ActionTimeout returns the sleep command timeout as a duration.
func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.SleepCommandTimeout) * time.Second
}

// WakeDelay returns the post-wake re-arm delay as a duration.
func (c *Config) WakeDelay() time.Duration {
	return time.Duration(c.WakeDelayMinutes) * time.Minute
}

// InitialDelay returns the default pre-sleep delay as a duration.
func (c *Config) InitialDelay() time.Duration {
	return time.Duration(c.DefaultDelayMinutes) * time.Minute
}

// RatesInterval returns the exchange-rate poll interval as a duration.
func (c *Config) RatesInterval() time.Duration {
	return time.Duration(c.RatesIntervalSeconds) * time.Second
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".sleepctl", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
