package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// FileSourceType is a manually uploaded corpus
	FileSourceType SourceType = FileSourceName
	// FeedSourceType is a JSON race feed
	FeedSourceType SourceType = FeedSourceName
	// HKJCSourceType is the HKJC site probe
	HKJCSourceType SourceType = HKJCSourceName
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger     *logrus.Logger
	config     *config.Config
	httpClient *RateLimitedHTTPClient
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *Factory {
	return &Factory{
		logger:     logger,
		config:     cfg,
		httpClient: httpClient,
	}
}

// Create creates a new data source based on the type
func (f *Factory) Create(sourceType SourceType) (DataSource, error) {
	switch sourceType {
	case FileSourceType:
		src := f.config.DataSources.File
		if src.Path == "" {
			return nil, fmt.Errorf("file source path is required")
		}
		return NewFileSource(src.Path, src.Enabled), nil

	case FeedSourceType:
		if f.httpClient == nil {
			return nil, fmt.Errorf("HTTP client is required")
		}
		src := f.config.DataSources.Feed
		if src.BaseURL == "" {
			return nil, fmt.Errorf("feed base URL is required")
		}
		return NewFeedClient(f.httpClient, src.BaseURL, src.APIKey, src.Enabled, f.logger), nil

	case HKJCSourceType:
		return f.NewHKJCProbe()

	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// NewHKJCProbe creates the HKJC probe regardless of whether it is enabled for fetching
func (f *Factory) NewHKJCProbe() (*HKJCProbe, error) {
	if f.httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	src := f.config.DataSources.HKJC
	if src.RacingURL == "" {
		return nil, fmt.Errorf("HKJC racing URL is required")
	}
	return NewHKJCProbe(f.httpClient, src.RacingURL, src.Enabled, f.logger), nil
}

// ListAvailableSources returns the enabled source types in fetch order:
// manual upload first, then the feed, then the HKJC probe
func (f *Factory) ListAvailableSources() []SourceType {
	available := make([]SourceType, 0, 3)
	if f.config == nil {
		return available
	}

	if f.config.DataSources.File.Enabled {
		available = append(available, FileSourceType)
	}
	if f.config.DataSources.Feed.Enabled {
		available = append(available, FeedSourceType)
	}
	if f.config.DataSources.HKJC.Enabled {
		available = append(available, HKJCSourceType)
	}
	return available
}

// NewDataSources creates all enabled data sources from configuration
func (f *Factory) NewDataSources() ([]DataSource, error) {
	var sources []DataSource

	for _, sourceType := range f.ListAvailableSources() {
		source, err := f.Create(sourceType)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", sourceType, err)
		}

		sources = append(sources, source)
		if f.logger != nil {
			f.logger.WithField("source", sourceType).Info("Created data source")
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	return sources, nil
}

// NewGateway builds a gateway over every enabled source
func (f *Factory) NewGateway() (*Gateway, error) {
	sources, err := f.NewDataSources()
	if err != nil {
		return nil, err
	}
	return NewGateway(sources, f.logger), nil
}
