package analysis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/race-advisor/internal/models"
)

// Placeholder confidence bounds
const (
	MinPlaceholderConfidence = 0.1
	MaxPlaceholderConfidence = 0.9
)

// ConfidenceProvider produces a confidence in (0,1) for backing a horse.
// The profile is nil when no history was supplied or the horse has none.
type ConfidenceProvider interface {
	Confidence(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error)
}

// ConfidenceFunc adapts a function to ConfidenceProvider
type ConfidenceFunc func(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error)

// Confidence calls f
func (f ConfidenceFunc) Confidence(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
	return f(ctx, horse, profile)
}

// UniformConfidence draws confidences uniformly from the open interval
// (MinPlaceholderConfidence, MaxPlaceholderConfidence). It stands in for a
// trained model and ignores its inputs.
type UniformConfidence struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformConfidence creates a placeholder provider with a fixed seed
func NewUniformConfidence(seed int64) *UniformConfidence {
	return NewUniformConfidenceFrom(rand.New(rand.NewSource(seed)))
}

// NewUniformConfidenceFrom creates a placeholder provider around an existing source
func NewUniformConfidenceFrom(rng *rand.Rand) *UniformConfidence {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UniformConfidence{rng: rng}
}

// Confidence returns the next uniform draw
func (u *UniformConfidence) Confidence(_ context.Context, _ models.HorseEntry, _ *models.PerformanceProfile) (float64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return drawOpen(u.rng.Float64, MinPlaceholderConfidence, MaxPlaceholderConfidence), nil
}

// drawOpen scales draws from next onto (lo, hi), redrawing any that land on
// a bound
func drawOpen(next func() float64, lo, hi float64) float64 {
	for {
		if c := lo + next()*(hi-lo); c > lo && c < hi {
			return c
		}
	}
}
