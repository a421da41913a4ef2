// Package config provides configuration management for the race advisor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	HTTPClient  HTTPClientConfig  `mapstructure:"http_client" validate:"required"`
	Advisor     AdvisorConfig     `mapstructure:"advisor" validate:"required"`
	MLService   MLServiceConfig   `mapstructure:"ml_service"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Health      HealthConfig      `mapstructure:"health"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. Persistence
// is optional; an empty host disables it.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_with=Host"`
	User               string `mapstructure:"user" validate:"required_with=Host"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// DataSourcesConfig groups the race data providers
type DataSourcesConfig struct {
	HKJC HKJCConfig       `mapstructure:"hkjc"`
	Feed FeedSourceConfig `mapstructure:"feed"`
	File FileSourceConfig `mapstructure:"file"`
}

// HKJCConfig configures the Hong Kong Jockey Club site probe
type HKJCConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	RacingURL string   `mapstructure:"racing_url" validate:"omitempty,url"`
	ProbeURLs []string `mapstructure:"probe_urls" validate:"omitempty,dive,url"`
	UserAgent string   `mapstructure:"user_agent"`
}

// FeedSourceConfig configures a JSON race feed
type FeedSourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
}

// FileSourceConfig configures a manually uploaded race corpus
type FileSourceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HTTPClientConfig configures outbound requests to data providers
type HTTPClientConfig struct {
	TimeoutSeconds             int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                 int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit                  float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax          int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitBreakerResetSeconds int     `mapstructure:"circuit_breaker_reset_seconds" validate:"gte=0"`
}

// AdvisorConfig configures the recommendation stage
type AdvisorConfig struct {
	Provider string `mapstructure:"provider" validate:"required,provider"`
	Seed     int64  `mapstructure:"seed"`
}

// MLServiceConfig represents the confidence model service configuration
type MLServiceConfig struct {
	URL                   string `mapstructure:"url" validate:"omitempty,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	ModelVersion          string `mapstructure:"model_version"`
}

// ScheduleConfig represents periodic sync and advisory jobs
type ScheduleConfig struct {
	Sync     string `mapstructure:"sync" validate:"omitempty,cronspec"`
	Advisory string `mapstructure:"advisory" validate:"omitempty,cronspec"`
	LookBack int    `mapstructure:"look_back_days" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HealthConfig represents the health server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// TracingConfig represents AWS X-Ray configuration
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	DaemonAddr     string  `mapstructure:"daemon_addr" validate:"required_with=Enabled"`
	SamplingRate   float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
	ServiceVersion string  `mapstructure:"service_version"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// HasDatabase checks if persistence is configured
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// HTTPTimeout returns the outbound request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPClient.TimeoutSeconds) * time.Second
}
