// Package ml provides caching for confidence values.
package ml

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
)

// CacheKey identifies a confidence by model version and every input the model sees
type CacheKey struct {
	ModelVersion string
	HorseID      string
	Odds         float64
	Weight       float64
	Profile      string
}

// NewCacheKey builds the key for a horse and optional profile
func NewCacheKey(modelVersion string, horse models.HorseEntry, profile *models.PerformanceProfile) CacheKey {
	return CacheKey{
		ModelVersion: modelVersion,
		HorseID:      horse.ID,
		Odds:         horse.GetOdds(),
		Weight:       horse.GetWeight(),
		Profile:      profileFingerprint(profile),
	}
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%g:%g:%s", k.ModelVersion, k.HorseID, k.Odds, k.Weight, k.Profile)
}

func profileFingerprint(profile *models.PerformanceProfile) string {
	if profile == nil {
		return "-"
	}
	form := make([]string, len(profile.RecentForm))
	for i, p := range profile.RecentForm {
		form[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("%d/%g/%g/%s", profile.TotalRaces, profile.AveragePosition, profile.WinRate, strings.Join(form, ","))
}

// ConfidenceCache provides in-memory caching for model confidences
type ConfidenceCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewConfidenceCache creates a new confidence cache
func NewConfidenceCache(ttl time.Duration) *ConfidenceCache {
	return &ConfidenceCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached confidence
func (cc *ConfidenceCache) Get(key CacheKey) (float64, bool) {
	if v, found := cc.cache.Get(key.String()); found {
		if confidence, ok := v.(float64); ok {
			cc.hitCount.Add(1)
			metrics.RecordConfidenceCache(true)
			return confidence, true
		}
	}

	cc.missCount.Add(1)
	metrics.RecordConfidenceCache(false)
	return 0, false
}

// Set stores a confidence in cache
func (cc *ConfidenceCache) Set(key CacheKey, confidence float64) {
	cc.cache.Set(key.String(), confidence, cc.ttl)
}

// Clear flushes the entire cache
func (cc *ConfidenceCache) Clear() {
	cc.cache.Flush()
	cc.hitCount.Store(0)
	cc.missCount.Store(0)
}

// Stats returns cache statistics
func (cc *ConfidenceCache) Stats() (hits, misses uint64, ratio float64) {
	hits = cc.hitCount.Load()
	misses = cc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (cc *ConfidenceCache) ItemCount() int {
	return cc.cache.ItemCount()
}
