package datasource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/config"
	"github.com/yourusername/race-advisor/internal/models"
)

type stubSource struct {
	name    string
	enabled bool
	races   []models.RaceRecord
	err     error
	calls   int
}

func (s *stubSource) FetchRaces(ctx context.Context, startDate, endDate time.Time) ([]models.RaceRecord, error) {
	s.calls++
	return s.races, s.err
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) IsEnabled() bool { return s.enabled }

func TestGatewayFetchFirstAvailable(t *testing.T) {
	failing := &stubSource{name: "feed", enabled: true, err: NewDataSourceError("feed", ErrCodeServerError, "boom", ErrServerError)}
	disabled := &stubSource{name: "other", enabled: false}
	file := &stubSource{name: "file", enabled: true, races: []models.RaceRecord{{ID: "r1"}}}

	gw := NewGateway([]DataSource{failing, disabled, file}, nil)
	outcome := gw.Fetch(context.Background(), time.Time{}, time.Time{})

	require.True(t, outcome.Available())
	assert.Nil(t, outcome.Report)
	assert.Equal(t, "file", outcome.Source)
	require.Len(t, outcome.Races, 1)
	assert.Equal(t, 0, disabled.calls)
	assert.Equal(t, 1, failing.calls)
}

func TestGatewayFetchEmptyCorpusIsAvailable(t *testing.T) {
	gw := NewGateway([]DataSource{&stubSource{name: "file", enabled: true}}, nil)
	outcome := gw.Fetch(context.Background(), time.Time{}, time.Time{})

	assert.True(t, outcome.Available())
	assert.NotNil(t, outcome.Races)
	assert.Empty(t, outcome.Races)
}

func TestGatewayFetchPrefersSpecificReport(t *testing.T) {
	report := models.NewSourceReport(models.SourceStatusAccessDenied, "HKJC site returned status 403")
	generic := &stubSource{name: "feed", enabled: true, err: errors.New("dial tcp: refused")}
	probe := &stubSource{name: "hkjc", enabled: true, err: &ReportError{Source: "hkjc", Report: report}}

	gw := NewGateway([]DataSource{generic, probe}, nil)
	outcome := gw.Fetch(context.Background(), time.Time{}, time.Time{})

	assert.False(t, outcome.Available())
	assert.Nil(t, outcome.Races)
	assert.Equal(t, "hkjc", outcome.Source)
	assert.Same(t, report, outcome.Report)
}

func TestGatewayFetchNoSources(t *testing.T) {
	gw := NewGateway(nil, nil)
	outcome := gw.Fetch(context.Background(), time.Time{}, time.Time{})

	require.False(t, outcome.Available())
	assert.Equal(t, models.SourceStatusError, outcome.Report.Status)
	assert.Equal(t, ErrNoSources.Error(), outcome.Report.Message)
}

func TestGatewayFetchFrom(t *testing.T) {
	file := &stubSource{name: "file", enabled: true, races: []models.RaceRecord{{ID: "r1"}}}
	gw := NewGateway([]DataSource{file}, nil)

	outcome := gw.FetchFrom(context.Background(), "file", time.Time{}, time.Time{})
	assert.True(t, outcome.Available())

	outcome = gw.FetchFrom(context.Background(), "feed", time.Time{}, time.Time{})
	require.False(t, outcome.Available())
	assert.Contains(t, outcome.Report.Message, `"feed"`)
}

func TestGatewaySources(t *testing.T) {
	gw := NewGateway([]DataSource{
		&stubSource{name: "file", enabled: true},
		&stubSource{name: "feed", enabled: false},
		&stubSource{name: "hkjc", enabled: true},
	}, nil)

	assert.Equal(t, []string{"file", "hkjc"}, gw.Sources())
}

func TestReportFromError(t *testing.T) {
	t.Run("auth failure", func(t *testing.T) {
		err := NewDataSourceError("feed", ErrCodeAuthenticationFailed, "feed returned status 401", ErrAuthenticationFailed)
		report := ReportFromError(err)

		assert.Equal(t, models.SourceStatusAccessDenied, report.Status)
		assert.Equal(t, true, report.Findings["authentication_needed"])
		assert.NotEmpty(t, report.Recommendation)
	})

	t.Run("other failure", func(t *testing.T) {
		report := ReportFromError(errors.New("boom"))

		assert.Equal(t, models.SourceStatusError, report.Status)
		assert.Equal(t, "boom", report.Message)
		assert.Empty(t, report.Findings)
	})
}

func TestFactoryNewDataSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSources.File = config.FileSourceConfig{Enabled: true, Path: filepath.Join("testdata", "races.json")}
	cfg.DataSources.Feed = config.FeedSourceConfig{Enabled: true, BaseURL: "http://localhost:1", APIKey: "k"}
	cfg.DataSources.HKJC = config.HKJCConfig{Enabled: true, RacingURL: "http://localhost:1/racing"}

	factory := NewFactory(cfg, newTestHTTPClient(), nil)
	assert.Equal(t, []SourceType{FileSourceType, FeedSourceType, HKJCSourceType}, factory.ListAvailableSources())

	sources, err := factory.NewDataSources()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.IsType(t, &FileSource{}, sources[0])
	assert.IsType(t, &FeedClient{}, sources[1])
	assert.IsType(t, &HKJCProbe{}, sources[2])

	gw, err := factory.NewGateway()
	require.NoError(t, err)
	outcome := gw.Fetch(context.Background(), time.Time{}, time.Time{})
	assert.True(t, outcome.Available())
	assert.Equal(t, FileSourceName, outcome.Source)
}

func TestFactoryNoSources(t *testing.T) {
	factory := NewFactory(&config.Config{}, newTestHTTPClient(), nil)

	_, err := factory.NewDataSources()
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = factory.Create(SourceType("betfair"))
	assert.Error(t, err)
}

func TestFactoryRequiresHTTPClient(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSources.Feed = config.FeedSourceConfig{Enabled: true, BaseURL: "http://localhost:1"}

	_, err := NewFactory(cfg, nil, nil).Create(FeedSourceType)
	assert.Error(t, err)

	_, err = NewFactory(cfg, nil, nil).NewHKJCProbe()
	assert.Error(t, err)
}
