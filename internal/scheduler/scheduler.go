package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/models"
	"github.com/yourusername/race-advisor/internal/repository"
	"github.com/yourusername/race-advisor/internal/service"
	"github.com/yourusername/race-advisor/internal/tracing"
)

const (
	syncTimeout     = 30 * time.Minute
	advisoryTimeout = 10 * time.Minute
)

// Syncer pulls a date range of races into the corpus
type Syncer interface {
	Sync(ctx context.Context, startDate, endDate time.Time) (*service.SyncResult, error)
}

// AdvisoryRunner advises a batch of races against a historical corpus
type AdvisoryRunner interface {
	Run(ctx context.Context, races []models.RaceRecord, historical []models.RaceRecord) (*service.RunReport, error)
}

// Scheduler manages scheduled corpus sync and advisory jobs
type Scheduler struct {
	cron     *cron.Cron
	syncer   Syncer
	advisory AdvisoryRunner
	raceRepo repository.RaceRepository
	logger   *logrus.Entry
	now      func() time.Time

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
	lastRun   *service.RunReport
}

// NewScheduler creates a new scheduler
func NewScheduler(syncer Syncer, advisory AdvisoryRunner, raceRepo repository.RaceRepository, baseLogger *logrus.Logger) *Scheduler {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		syncer:   syncer,
		advisory: advisory,
		raceRepo: raceRepo,
		logger:   baseLogger.WithField("component", "scheduler"),
		now:      time.Now,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleSync schedules a corpus sync over the trailing lookBackDays
func (s *Scheduler) ScheduleSync(cronExpression string, lookBackDays int) error {
	return s.addJob(cronExpression, "sync", func() { s.RunSync(lookBackDays) })
}

// ScheduleAdvisoryRun schedules advice for races dated in the trailing
// lookBackDays, using the whole stored corpus as history
func (s *Scheduler) ScheduleAdvisoryRun(cronExpression string, lookBackDays int) error {
	return s.addJob(cronExpression, "advisory", func() { s.RunAdvisory(lookBackDays) })
}

func (s *Scheduler) addJob(cronExpression, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, job)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// RunSync performs one sync immediately
func (s *Scheduler) RunSync(lookBackDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	ctx, endSegment := tracing.StartSegment(ctx, "scheduled-sync")
	var err error
	defer func() { endSegment(err) }()

	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -lookBackDays)

	result, err := s.syncer.Sync(ctx, startDate, endDate)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled sync failed")
		return
	}
	if !result.Outcome.Available() {
		s.logger.WithFields(logrus.Fields{
			"source": result.Outcome.Source,
			"status": string(result.Outcome.Report.Status),
		}).Warn("Scheduled sync found no available source")
		return
	}
	tracing.AddAnnotation(ctx, "source", result.Outcome.Source)
	tracing.AddAnnotation(ctx, "stored_races", result.Stats.StoredRaces)
	s.logger.WithField("stored", result.Stats.StoredRaces).Info("Scheduled sync completed")
}

// RunAdvisory performs one advisory run immediately
func (s *Scheduler) RunAdvisory(lookBackDays int) {
	ctx, cancel := context.WithTimeout(context.Background(), advisoryTimeout)
	defer cancel()

	ctx, endSegment := tracing.StartSegment(ctx, "scheduled-advisory")
	var err error
	defer func() { endSegment(err) }()

	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -lookBackDays)

	var races []models.RaceRecord
	races, err = s.raceRepo.List(ctx, startDate, endDate)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load races for advisory run")
		return
	}
	var historical []models.RaceRecord
	historical, err = s.raceRepo.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		s.logger.WithError(err).Error("Failed to load historical corpus")
		return
	}

	var report *service.RunReport
	report, err = s.advisory.Run(ctx, races, historical)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled advisory run failed")
		return
	}
	tracing.AddAnnotation(ctx, "run_id", report.RunID)
	tracing.AddAnnotation(ctx, "races", len(report.Races))

	s.mu.Lock()
	s.lastRun = report
	s.mu.Unlock()
}

// LastRun returns the report of the most recent scheduled advisory run
func (s *Scheduler) LastRun() *service.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish. The lock is
// released before waiting since finishing jobs record their reports under it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	done := s.cron.Stop().Done()
	s.mu.Unlock()

	<-done
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
