package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/race-advisor/internal/analysis"
	"github.com/yourusername/race-advisor/internal/logger"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
)

// Pipeline stages reported for skipped races
const (
	StageSummarize = "summarize"
	StageAdvise    = "advise"
)

const defaultConcurrency = 8

// RaceError records why one race in a batch produced no output
type RaceError struct {
	RaceID string `json:"race_id"`
	Index  int    `json:"index"`
	Stage  string `json:"stage"`
	Err    error  `json:"-"`
}

func (e *RaceError) Error() string {
	return fmt.Sprintf("race %d (%s) %s: %v", e.Index, e.RaceID, e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *RaceError) Unwrap() error {
	return e.Err
}

// MarshalJSON includes the error message
func (e *RaceError) MarshalJSON() ([]byte, error) {
	type alias RaceError
	message := ""
	if e.Err != nil {
		message = e.Err.Error()
	}
	return json.Marshal(struct {
		*alias
		Message string `json:"error"`
	}{alias: (*alias)(e), Message: message})
}

// RaceSummaryItem is one race's summary within a batch
type RaceSummaryItem struct {
	RaceID  string               `json:"race_id"`
	Summary models.SummaryResult `json:"summary"`
}

// BatchSummary holds summaries for every well-formed race and an error for
// every malformed one, both in input order
type BatchSummary struct {
	Summaries []RaceSummaryItem `json:"summaries"`
	Errors    []*RaceError      `json:"errors"`
}

// RaceAdvice is the full pipeline output for one race
type RaceAdvice struct {
	RaceID          string                  `json:"race_id"`
	Summary         models.SummaryResult    `json:"summary"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// RunReport is the outcome of an advisory run over a corpus
type RunReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Races     []RaceAdvice  `json:"races"`
	Skipped   []*RaceError  `json:"skipped"`
}

// AdvisoryService runs the summarize, history and advise stages with logging
// and metrics around the pure analysis functions
type AdvisoryService struct {
	advisor     *analysis.Advisor
	logger      *logger.AdvisoryLogger
	concurrency int
}

// NewAdvisoryService creates a new advisory service. A nil provider uses the
// time-seeded placeholder.
func NewAdvisoryService(provider analysis.ConfidenceProvider, baseLogger *logrus.Logger, concurrency int) *AdvisoryService {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &AdvisoryService{
		advisor:     analysis.NewAdvisor(provider),
		logger:      logger.NewAdvisoryLogger(baseLogger),
		concurrency: concurrency,
	}
}

// Summarize summarizes one race
func (s *AdvisoryService) Summarize(race models.RaceRecord) (models.SummaryResult, error) {
	result, err := analysis.Summarize(race)
	if err != nil {
		metrics.RecordMalformedEntry(StageSummarize)
		return result, err
	}

	metrics.RecordRaceSummarized()
	s.logger.LogRaceSummary("", race.ID, result.Analysis)
	return result, nil
}

// SummarizeBatch summarizes races concurrently. A malformed race is reported
// in Errors and does not stop the others.
func (s *AdvisoryService) SummarizeBatch(ctx context.Context, races []models.RaceRecord) (*BatchSummary, error) {
	results := make([]models.SummaryResult, len(races))
	raceErrs := make([]*RaceError, len(races))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range races {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := analysis.Summarize(races[i])
			if err != nil {
				raceErrs[i] = &RaceError{RaceID: races[i].ID, Index: i, Stage: StageSummarize, Err: err}
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &BatchSummary{
		Summaries: make([]RaceSummaryItem, 0, len(races)),
		Errors:    []*RaceError{},
	}
	for i := range races {
		if raceErrs[i] != nil {
			metrics.RecordMalformedEntry(StageSummarize)
			s.logger.LogMalformedEntry("", races[i].ID, StageSummarize, raceErrs[i].Err)
			batch.Errors = append(batch.Errors, raceErrs[i])
			continue
		}
		metrics.RecordRaceSummarized()
		s.logger.LogRaceSummary("", races[i].ID, results[i].Analysis)
		batch.Summaries = append(batch.Summaries, RaceSummaryItem{RaceID: races[i].ID, Summary: results[i]})
	}

	return batch, nil
}

// HistoryFor aggregates a horse's historical performance
func (s *AdvisoryService) HistoryFor(horseID string, races []models.RaceRecord) models.PerformanceResult {
	result := analysis.AnalyzeHistory(horseID, races)
	s.logger.LogHistoryProfile(result)
	return result
}

// AdviseRace returns one recommendation per horse in the race
func (s *AdvisoryService) AdviseRace(ctx context.Context, race models.RaceRecord, historical []models.RaceRecord) ([]models.Recommendation, error) {
	return s.advise(ctx, "", race, historical)
}

// Run summarizes and advises every race in the corpus. Races with malformed
// entries are skipped and listed in the report. Advice runs in race order so
// seeded providers are reproducible.
func (s *AdvisoryService) Run(ctx context.Context, races []models.RaceRecord, historical []models.RaceRecord) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Races:     make([]RaceAdvice, 0, len(races)),
		Skipped:   []*RaceError{},
	}
	metrics.UpdateCorpusSize(len(races))

	for i, race := range races {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := analysis.Summarize(race)
		if err != nil {
			report.Skipped = append(report.Skipped, s.skip(report.RunID, i, race.ID, StageSummarize, err))
			continue
		}
		metrics.RecordRaceSummarized()
		s.logger.LogRaceSummary(report.RunID, race.ID, summary.Analysis)

		recommendations, err := s.advise(ctx, report.RunID, race, historical)
		if err != nil {
			if !errors.Is(err, models.ErrMalformedEntry) && !errors.Is(err, models.ErrInvalidConfidence) {
				return nil, fmt.Errorf("advisory run %s: %w", report.RunID, err)
			}
			report.Skipped = append(report.Skipped, s.skip(report.RunID, i, race.ID, StageAdvise, err))
			continue
		}

		report.Races = append(report.Races, RaceAdvice{
			RaceID:          race.ID,
			Summary:         summary,
			Recommendations: recommendations,
		})
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordAnalysisRun(report.Duration.Seconds())
	s.logger.LogRunCompleted(report.RunID, len(races), len(report.Races), len(report.Skipped), float64(report.Duration.Milliseconds()))

	return report, nil
}

func (s *AdvisoryService) advise(ctx context.Context, runID string, race models.RaceRecord, historical []models.RaceRecord) ([]models.Recommendation, error) {
	recommendations, err := s.advisor.Advise(ctx, race, historical)
	if err != nil {
		if errors.Is(err, models.ErrMalformedEntry) {
			metrics.RecordMalformedEntry(StageAdvise)
		}
		return nil, err
	}

	for _, rec := range recommendations {
		metrics.RecordRecommendation(string(rec.RecommendedBet), rec.Confidence)
		s.logger.LogRecommendation(runID, race.ID, rec)
	}
	return recommendations, nil
}

func (s *AdvisoryService) skip(runID string, index int, raceID, stage string, err error) *RaceError {
	if stage == StageSummarize {
		metrics.RecordMalformedEntry(stage)
	}
	s.logger.LogMalformedEntry(runID, raceID, stage, err)
	return &RaceError{RaceID: raceID, Index: index, Stage: stage, Err: err}
}
