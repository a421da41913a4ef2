// Package logger provides data source logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/models"
)

// SourceLogger provides dedicated logging for data source access.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new data source logger.
func NewSourceLogger(baseLogger *logrus.Logger) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithField("component", "datasource"),
	}
}

// LogFetch logs a completed corpus fetch.
func (sl *SourceLogger) LogFetch(source string, races int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"source":      source,
		"races":       races,
		"duration_ms": durationMs,
	}).Info("Race corpus fetched")
}

// LogReport logs an unavailability report returned instead of a corpus.
func (sl *SourceLogger) LogReport(source string, report *models.SourceReport) {
	sl.WithFields(logrus.Fields{
		"source":         source,
		"status":         string(report.Status),
		"message":        report.Message,
		"recommendation": report.Recommendation,
	}).Warn("Data source unavailable")
}

// LogProbe logs the result of probing a single URL.
func (sl *SourceLogger) LogProbe(url string, statusCode int, accessible bool, endpoints int) {
	sl.WithFields(logrus.Fields{
		"url":           url,
		"status_code":   statusCode,
		"accessible":    accessible,
		"api_endpoints": endpoints,
	}).Debug("URL probed")
}
