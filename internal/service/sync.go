package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/datasource"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
	"github.com/yourusername/race-advisor/internal/repository"
)

// Fetcher is the gateway surface the sync service needs
type Fetcher interface {
	Fetch(ctx context.Context, startDate, endDate time.Time) datasource.Outcome
}

// SyncResult is the outcome of one synchronisation
type SyncResult struct {
	Outcome datasource.Outcome `json:"outcome"`
	Stats   SyncStats          `json:"stats"`
}

// SyncService pulls race corpora through the gateway and stores them
type SyncService struct {
	gateway   Fetcher
	raceRepo  repository.RaceRepository
	validator *DataValidator
	metrics   *SyncMetrics
	logger    *logrus.Entry
}

// NewSyncService creates a new sync service. A nil repository skips storage.
func NewSyncService(gateway Fetcher, raceRepo repository.RaceRepository, baseLogger *logrus.Logger) *SyncService {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}

	return &SyncService{
		gateway:   gateway,
		raceRepo:  raceRepo,
		validator: NewDataValidator(),
		metrics:   NewSyncMetrics(),
		logger:    baseLogger.WithField("component", "sync"),
	}
}

// Sync fetches races dated within the range and stores the structurally valid
// ones. An unavailable source is not an error; its report is in the outcome.
func (s *SyncService) Sync(ctx context.Context, startDate, endDate time.Time) (*SyncResult, error) {
	s.metrics.Reset()

	s.logger.WithFields(logrus.Fields{
		"start": startDate.Format("2006-01-02"),
		"end":   endDate.Format("2006-01-02"),
	}).Info("Starting corpus sync")

	outcome := s.gateway.Fetch(ctx, startDate, endDate)
	if !outcome.Available() {
		s.metrics.Finish()
		return &SyncResult{Outcome: outcome, Stats: s.metrics.Snapshot()}, nil
	}

	s.metrics.RecordFetched(len(outcome.Races))

	valid := make([]models.RaceRecord, 0, len(outcome.Races))
	for i := range outcome.Races {
		race := &outcome.Races[i]
		if problems := s.validator.ValidateRace(race); len(problems) > 0 {
			s.metrics.RecordValidationError()
			s.logger.WithFields(logrus.Fields{
				"race_id": race.ID,
				"source":  outcome.Source,
			}).Warnf("Race validation failed: %s", strings.Join(problems, "; "))
			continue
		}
		valid = append(valid, *race)
	}

	if s.raceRepo != nil && len(valid) > 0 {
		stored, err := s.raceRepo.SaveBatch(ctx, valid)
		if err != nil {
			s.metrics.RecordError()
			return nil, fmt.Errorf("failed to store races from %s: %w", outcome.Source, err)
		}
		s.metrics.RecordStored(stored)

		if count, err := s.raceRepo.Count(ctx); err == nil {
			metrics.UpdateCorpusSize(count)
		}
	}

	s.metrics.Finish()
	s.logger.Info(s.metrics.String())

	return &SyncResult{Outcome: outcome, Stats: s.metrics.Snapshot()}, nil
}

// GetMetrics returns current sync metrics
func (s *SyncService) GetMetrics() *SyncMetrics {
	return s.metrics
}
