// Package main provides the race-advisor command line tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/race-advisor/internal/config"
	"github.com/yourusername/race-advisor/internal/database"
	"github.com/yourusername/race-advisor/internal/datasource"
	"github.com/yourusername/race-advisor/internal/logger"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
	"github.com/yourusername/race-advisor/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	log        *logrus.Logger
	stdout     io.Writer = os.Stdout
	stdin      io.Reader = os.Stdin
)

var rootCmd = &cobra.Command{
	Use:   "race-advisor",
	Short: "Horse race summaries, form history and bet advice",
	Long: `race-advisor summarises race cards, aggregates historical form per horse
and produces per-horse bet recommendations. Results are written to stdout as JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return setup(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		newSummarizeCmd(),
		newHistoryCmd(),
		newAdviseCmd(),
		newInvestigateCmd(),
		newProbeCmd(),
		newSyncCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Logs go to stderr so stdout stays machine readable
	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, os.Stderr)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readRaces reads a race list from a file, or stdin when path is "-"
func readRaces(path string) ([]models.RaceRecord, error) {
	if path == "-" {
		return datasource.DecodeRaces(stdin)
	}
	return datasource.ReadRaces(path)
}

// openRepositories connects to PostgreSQL when configured and falls back to
// an in-memory store otherwise. The returned func releases the connection.
func openRepositories(ctx context.Context) (*repository.Repositories, func(), error) {
	if !cfg.HasDatabase() {
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repos, db.Close, nil
}

// loadHistorical reads the historical corpus from a file when given, else
// from the configured repository
func loadHistorical(ctx context.Context, path string) ([]models.RaceRecord, error) {
	if path != "" {
		return readRaces(path)
	}

	repos, closeFn, err := openRepositories(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return repos.Race.List(ctx, time.Time{}, time.Time{})
}

func newHTTPClient() *datasource.RateLimitedHTTPClient {
	return datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfigFrom(cfg), log)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(map[string]string{
				"version":    Version,
				"commit":     GitCommit,
				"build_date": BuildDate,
			})
		},
	}
}
