package ml

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/analysis"
	"github.com/yourusername/race-advisor/internal/models"
)

// CachedProvider wraps a ConfidenceProvider with confidence caching
type CachedProvider struct {
	provider     analysis.ConfidenceProvider
	cache        *ConfidenceCache
	modelVersion string
	logger       *logrus.Entry
}

// NewCachedProvider creates a new cached provider
func NewCachedProvider(provider analysis.ConfidenceProvider, modelVersion string, ttl time.Duration, baseLogger *logrus.Logger) *CachedProvider {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &CachedProvider{
		provider:     provider,
		cache:        NewConfidenceCache(ttl),
		modelVersion: modelVersion,
		logger:       baseLogger.WithField("component", "ml_cache"),
	}
}

// Confidence returns a cached confidence or asks the wrapped provider
func (c *CachedProvider) Confidence(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
	key := NewCacheKey(c.modelVersion, horse, profile)

	if cached, ok := c.cache.Get(key); ok {
		c.logger.WithField("cache_key", key.String()).Debug("Cache hit for confidence")
		return cached, nil
	}

	c.logger.WithField("cache_key", key.String()).Debug("Cache miss, fetching from provider")
	confidence, err := c.provider.Confidence(ctx, horse, profile)
	if err != nil {
		return 0, err
	}

	c.cache.Set(key, confidence)
	return confidence, nil
}

// ClearCache clears all cached confidences
func (c *CachedProvider) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns cache statistics
func (c *CachedProvider) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}
