package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/logger"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
)

const fetchStatusOK = "ok"

// Outcome is the result of a gateway fetch. Exactly one of Races or Report is set.
type Outcome struct {
	Source string               `json:"source,omitempty"`
	Races  []models.RaceRecord  `json:"races,omitempty"`
	Report *models.SourceReport `json:"report,omitempty"`
}

// Available reports whether the outcome carries a race corpus
func (o *Outcome) Available() bool {
	return o.Report == nil
}

// Gateway fetches race corpora from the configured sources in order, falling
// back to the next source when one is unavailable
type Gateway struct {
	sources []DataSource
	logger  *logger.SourceLogger
}

// NewGateway creates a gateway over the given sources
func NewGateway(sources []DataSource, baseLogger *logrus.Logger) *Gateway {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &Gateway{
		sources: sources,
		logger:  logger.NewSourceLogger(baseLogger),
	}
}

// Sources returns the names of the enabled sources in fetch order
func (g *Gateway) Sources() []string {
	names := make([]string, 0, len(g.sources))
	for _, src := range g.sources {
		if src.IsEnabled() {
			names = append(names, src.Name())
		}
	}
	return names
}

// Fetch returns the first corpus an enabled source yields. When every source
// fails, the most specific unavailability report is returned instead.
func (g *Gateway) Fetch(ctx context.Context, startDate, endDate time.Time) Outcome {
	var fallback *Outcome

	for _, src := range g.sources {
		if !src.IsEnabled() {
			continue
		}

		outcome := g.fetchOne(ctx, src, startDate, endDate)
		if outcome.Available() {
			return outcome
		}
		if ctx.Err() != nil {
			return outcome
		}
		if fallback == nil || (fallback.Report.Status == models.SourceStatusError && outcome.Report.Status != models.SourceStatusError) {
			o := outcome
			fallback = &o
		}
	}

	if fallback != nil {
		return *fallback
	}

	report := models.NewSourceReport(models.SourceStatusError, ErrNoSources.Error())
	report.Recommendation = hkjcRecommendation
	return Outcome{Report: report}
}

// FetchFrom fetches from the named source only
func (g *Gateway) FetchFrom(ctx context.Context, name string, startDate, endDate time.Time) Outcome {
	for _, src := range g.sources {
		if src.Name() == name && src.IsEnabled() {
			return g.fetchOne(ctx, src, startDate, endDate)
		}
	}
	return Outcome{
		Source: name,
		Report: models.NewSourceReport(models.SourceStatusError, fmt.Sprintf("data source %q is not enabled", name)),
	}
}

func (g *Gateway) fetchOne(ctx context.Context, src DataSource, startDate, endDate time.Time) Outcome {
	start := time.Now()
	races, err := src.FetchRaces(ctx, startDate, endDate)
	if err != nil {
		report := ReportFromError(err)
		metrics.RecordSourceFetch(src.Name(), string(report.Status))
		g.logger.LogReport(src.Name(), report)
		return Outcome{Source: src.Name(), Report: report}
	}

	if races == nil {
		races = []models.RaceRecord{}
	}
	metrics.RecordSourceFetch(src.Name(), fetchStatusOK)
	g.logger.LogFetch(src.Name(), len(races), float64(time.Since(start).Milliseconds()))
	return Outcome{Source: src.Name(), Races: races}
}

// ReportFromError converts a source error into an unavailability report
func ReportFromError(err error) *models.SourceReport {
	var reportErr *ReportError
	if errors.As(err, &reportErr) && reportErr.Report != nil {
		return reportErr.Report
	}

	if IsAuthError(err) {
		report := models.NewSourceReport(models.SourceStatusAccessDenied, err.Error())
		report.Findings["authentication_needed"] = true
		report.Recommendation = hkjcRecommendation
		return report
	}

	return models.NewSourceReport(models.SourceStatusError, err.Error())
}
