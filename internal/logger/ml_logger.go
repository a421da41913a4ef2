// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for confidence model operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogConfidenceRequest logs a confidence model request.
func (ml *MLLogger) LogConfidenceRequest(modelVersion, horseID string, hasProfile, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"horse_id":      horseID,
		"has_profile":   hasProfile,
		"cache_hit":     cacheHit,
		"latency_ms":    latencyMs,
	}).Debug("Confidence request completed")
}

// LogConfidenceFailure logs a failed confidence model request.
func (ml *MLLogger) LogConfidenceFailure(modelVersion, horseID string, err error) {
	ml.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"horse_id":      horseID,
	}).WithError(err).Error("Confidence request failed")
}
