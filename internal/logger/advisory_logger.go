// Package logger provides advisory pipeline logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/models"
)

// AdvisoryLogger provides dedicated logging for summaries and recommendations.
type AdvisoryLogger struct {
	*logrus.Entry
}

// NewAdvisoryLogger creates a new advisory logger.
func NewAdvisoryLogger(baseLogger *logrus.Logger) *AdvisoryLogger {
	return &AdvisoryLogger{
		Entry: baseLogger.WithField("component", "advisory"),
	}
}

// LogRaceSummary logs a race summary.
func (al *AdvisoryLogger) LogRaceSummary(runID, raceID string, summary *models.RaceSummary) {
	fields := logrus.Fields{
		"run_id":  runID,
		"race_id": raceID,
	}
	if summary == nil {
		al.WithFields(fields).Debug("Race has no horses, empty summary")
		return
	}
	fields["total_horses"] = summary.TotalHorses
	fields["surface"] = summary.Surface
	if summary.AverageOdds != nil {
		fields["average_odds"] = *summary.AverageOdds
	}
	if summary.AverageWeight != nil {
		fields["average_weight"] = *summary.AverageWeight
	}
	al.WithFields(fields).Info("Race summarized")
}

// LogRecommendation logs a single horse recommendation.
func (al *AdvisoryLogger) LogRecommendation(runID, raceID string, rec models.Recommendation) {
	al.WithFields(logrus.Fields{
		"run_id":          runID,
		"race_id":         raceID,
		"horse_id":        rec.HorseID,
		"horse_name":      rec.HorseName,
		"confidence":      rec.Confidence,
		"recommended_bet": string(rec.RecommendedBet),
		"expected_odds":   rec.ExpectedOdds,
	}).Info("Recommendation generated")
}

// LogHistoryProfile logs a historical performance lookup.
func (al *AdvisoryLogger) LogHistoryProfile(result models.PerformanceResult) {
	entry := al.WithField("horse_id", result.GetHorseID())
	profile := models.ProfileOf(result)
	if profile == nil {
		entry.Info("No historical data for horse")
		return
	}
	entry.WithFields(logrus.Fields{
		"total_races":      profile.TotalRaces,
		"average_position": profile.AveragePosition,
		"win_rate":         profile.WinRate,
		"recent_form":      profile.RecentForm,
	}).Info("Historical performance aggregated")
}

// LogMalformedEntry logs a race skipped because of a malformed record.
func (al *AdvisoryLogger) LogMalformedEntry(runID, raceID, stage string, err error) {
	al.WithFields(logrus.Fields{
		"run_id":  runID,
		"race_id": raceID,
		"stage":   stage,
	}).WithError(err).Warn("Race skipped: malformed entry")
}

// LogRunCompleted logs the outcome of an advisory run.
func (al *AdvisoryLogger) LogRunCompleted(runID string, races, advised, skipped int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"races":       races,
		"advised":     advised,
		"skipped":     skipped,
		"duration_ms": durationMs,
	}).Info("Advisory run completed")
}
