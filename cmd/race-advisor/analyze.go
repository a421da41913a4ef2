package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/race-advisor/internal/ml"
	"github.com/yourusername/race-advisor/internal/service"
)

const defaultConcurrency = 4

func newSummarizeCmd() *cobra.Command {
	var input string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarise each race in a race list",
		RunE: func(cmd *cobra.Command, args []string) error {
			races, err := readRaces(input)
			if err != nil {
				return err
			}

			svc := service.NewAdvisoryService(nil, log, concurrency)
			batch, err := svc.SummarizeBatch(cmd.Context(), races)
			if err != nil {
				return err
			}
			return printJSON(batch)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Race list JSON file, - for stdin")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultConcurrency, "Races summarised in parallel")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var input, horseID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Aggregate one horse's form over a historical corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			races, err := loadHistorical(cmd.Context(), input)
			if err != nil {
				return err
			}

			svc := service.NewAdvisoryService(nil, log, 1)
			return printJSON(svc.HistoryFor(horseID, races))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Historical race list JSON file (default: stored corpus)")
	cmd.Flags().StringVar(&horseID, "horse", "", "Horse id")
	_ = cmd.MarkFlagRequired("horse")
	return cmd
}

func newAdviseCmd() *cobra.Command {
	var input, history string
	var seed int64

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Recommend a bet for every horse in a race list",
		RunE: func(cmd *cobra.Command, args []string) error {
			races, err := readRaces(input)
			if err != nil {
				return err
			}
			historical, err := loadHistorical(cmd.Context(), history)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if cmd.Flags().Changed("seed") {
				cfg.Advisor.Seed = seed
			}
			provider, err := ml.NewProvider(cfg, log)
			if err != nil {
				return err
			}

			svc := service.NewAdvisoryService(provider, log, 1)
			report, err := svc.Run(cmd.Context(), races, historical)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Race list JSON file, - for stdin")
	cmd.Flags().StringVar(&history, "history", "", "Historical race list JSON file (default: stored corpus)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the uniform confidence provider")
	return cmd
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
