package ml

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/analysis"
	"github.com/yourusername/race-advisor/internal/config"
)

// NewProvider builds the confidence provider selected in configuration. A zero
// seed gives a time-seeded placeholder.
func NewProvider(cfg *config.Config, logger *logrus.Logger) (analysis.ConfidenceProvider, error) {
	switch cfg.Advisor.Provider {
	case config.ProviderUniform, "":
		if cfg.Advisor.Seed == 0 {
			return analysis.NewUniformConfidenceFrom(nil), nil
		}
		return analysis.NewUniformConfidence(cfg.Advisor.Seed), nil

	case config.ProviderModel:
		if cfg.MLService.URL == "" {
			return nil, fmt.Errorf("ml_service.url is required for provider %q", config.ProviderModel)
		}
		client := NewModelClient(&cfg.MLService, logger)
		ttl := time.Duration(cfg.MLService.CacheTTLSeconds) * time.Second
		if ttl <= 0 {
			return client, nil
		}
		return NewCachedProvider(client, cfg.MLService.ModelVersion, ttl, logger), nil

	default:
		return nil, fmt.Errorf("unknown confidence provider: %s", cfg.Advisor.Provider)
	}
}
