// Package config provides configuration management for the race advisor.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// Confidence provider names
const (
	ProviderUniform = "uniform"
	ProviderModel   = "model"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("provider", validateProvider)
	_ = v.RegisterValidation("cronspec", validateCronSpec)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ProviderUniform, ProviderModel:
		return true
	default:
		return false
	}
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Advisor.Provider == ProviderModel && cfg.MLService.URL == "" {
		return fmt.Errorf("advisor provider %q requires ml_service.url", ProviderModel)
	}

	if cfg.DataSources.Feed.Enabled && cfg.DataSources.Feed.BaseURL == "" {
		return fmt.Errorf("data_sources.feed.base_url is required when the feed is enabled")
	}
	if cfg.DataSources.File.Enabled && cfg.DataSources.File.Path == "" {
		return fmt.Errorf("data_sources.file.path is required when the file source is enabled")
	}
	if cfg.DataSources.HKJC.Enabled && cfg.DataSources.HKJC.RacingURL == "" {
		return fmt.Errorf("data_sources.hkjc.racing_url is required when the probe is enabled")
	}

	if cfg.HasDatabase() {
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_with":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "provider":
			fmt.Fprintf(&b, "- Field '%s' must be one of: %s, %s\n", field, ProviderUniform, ProviderModel)
		case "cronspec":
			fmt.Fprintf(&b, "- Field '%s' is not a valid cron expression: '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
