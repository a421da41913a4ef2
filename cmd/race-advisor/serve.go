package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/race-advisor/internal/database"
	"github.com/yourusername/race-advisor/internal/datasource"
	"github.com/yourusername/race-advisor/internal/health"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/ml"
	"github.com/yourusername/race-advisor/internal/repository"
	"github.com/yourusername/race-advisor/internal/scheduler"
	"github.com/yourusername/race-advisor/internal/service"
	"github.com/yourusername/race-advisor/internal/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled sync and advisory jobs behind a health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	if cfg.Tracing.ServiceVersion == "" {
		cfg.Tracing.ServiceVersion = Version
	}
	if err := tracing.Initialize(cfg.Tracing, log); err != nil {
		return err
	}

	checks := make(map[string]health.CheckFunc)

	repos := repository.NewMemoryRepositories()
	if cfg.HasDatabase() {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		if repos, err = repository.NewRepositories(db); err != nil {
			return err
		}
		checks["database"] = db.HealthCheck
	} else {
		log.Warn("No database configured, races are kept in memory")
	}

	if cfg.MLService.URL != "" {
		checks["ml_service"] = ml.NewModelClient(&cfg.MLService, log).HealthCheck
	}

	provider, err := ml.NewProvider(cfg, log)
	if err != nil {
		return err
	}

	httpClient := newHTTPClient()
	defer httpClient.Close()

	gateway, err := datasource.NewFactory(cfg, httpClient, log).NewGateway()
	if err != nil {
		return err
	}

	syncSvc := service.NewSyncService(gateway, repos.Race, log)
	advisorySvc := service.NewAdvisoryService(provider, log, defaultConcurrency)

	sched := scheduler.NewScheduler(syncSvc, advisorySvc, repos.Race, log)
	scheduled := 0
	if cfg.Schedule.Sync != "" {
		if err := sched.ScheduleSync(cfg.Schedule.Sync, cfg.Schedule.LookBack); err != nil {
			return err
		}
		scheduled++
	}
	if cfg.Schedule.Advisory != "" {
		if err := sched.ScheduleAdvisoryRun(cfg.Schedule.Advisory, cfg.Schedule.LookBack); err != nil {
			return err
		}
		scheduled++
	}

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      log,
		Checks:      checks,
	}
	if cfg.Metrics.Enabled {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if scheduled > 0 {
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	} else {
		log.Warn("No schedules configured, serving health endpoints only")
	}

	healthServer.SetReady(true)
	log.WithField("sources", gateway.Sources()).Info("race-advisor serving")

	<-ctx.Done()
	healthServer.SetReady(false)
	log.Info("Shutting down")
	return nil
}
