// Package config provides configuration management for the race advisor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "RACE_ADVISOR"

// DefaultConfigPath is used when no configuration path is given
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "race-advisor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("data_sources.hkjc.racing_url", "https://racing.hkjc.com/racing/english/index.aspx")
	v.SetDefault("data_sources.hkjc.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	v.SetDefault("data_sources.hkjc.probe_urls", []string{
		"https://entertainment.hkjc.com/",
		"https://racing.hkjc.com/racing/english/index.aspx",
		"https://racing.hkjc.com/racing/english/racecard/index.aspx",
		"https://bet.hkjc.com/racing/index.aspx?lang=en",
	})

	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("http_client.max_retries", 3)
	v.SetDefault("http_client.rate_limit", 2.0)
	v.SetDefault("http_client.circuit_breaker_max", 5)
	v.SetDefault("http_client.circuit_breaker_reset_seconds", 30)

	v.SetDefault("advisor.provider", "uniform")

	v.SetDefault("ml_service.request_timeout_seconds", 5)
	v.SetDefault("ml_service.cache_ttl_seconds", 300)
	v.SetDefault("ml_service.model_version", "latest")

	v.SetDefault("schedule.look_back_days", 7)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", "8080")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
	v.SetDefault("tracing.sampling_rate", 0.05)
}
