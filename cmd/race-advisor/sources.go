package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/race-advisor/internal/datasource"
	"github.com/yourusername/race-advisor/internal/service"
)

func newInvestigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "investigate",
		Short: "Check whether the HKJC racing site can be used as a data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			httpClient := newHTTPClient()
			defer httpClient.Close()

			probe, err := datasource.NewFactory(cfg, httpClient, log).NewHKJCProbe()
			if err != nil {
				return err
			}
			return printJSON(probe.Investigate(cmd.Context()))
		},
	}
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [url...]",
		Short: "Probe HKJC pages for reachability and embedded API endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if len(urls) == 0 {
				urls = cfg.DataSources.HKJC.ProbeURLs
			}
			if len(urls) == 0 {
				return fmt.Errorf("no urls given and data_sources.hkjc.probe_urls is empty")
			}

			httpClient := newHTTPClient()
			defer httpClient.Close()

			probe, err := datasource.NewFactory(cfg, httpClient, log).NewHKJCProbe()
			if err != nil {
				return err
			}
			return printJSON(probe.ProbeAll(cmd.Context(), urls))
		},
	}
}

func newSyncCmd() *cobra.Command {
	var from, to, source string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull races from the enabled data sources into the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag(from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(to)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repos, closeFn, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			httpClient := newHTTPClient()
			defer httpClient.Close()

			gateway, err := datasource.NewFactory(cfg, httpClient, log).NewGateway()
			if err != nil {
				return err
			}

			var fetcher service.Fetcher = gateway
			if source != "" {
				fetcher = namedSource{gateway: gateway, name: source}
			}

			result, err := service.NewSyncService(fetcher, repos.Race, log).Sync(ctx, start, end)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First race date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last race date, YYYY-MM-DD")
	cmd.Flags().StringVar(&source, "source", "", "Only use this source (file, feed, hkjc)")
	return cmd
}

// namedSource pins a sync to one gateway source
type namedSource struct {
	gateway *datasource.Gateway
	name    string
}

func (n namedSource) Fetch(ctx context.Context, start, end time.Time) datasource.Outcome {
	return n.gateway.FetchFrom(ctx, n.name, start, end)
}
