package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/models"
)

// FeedSourceName identifies the JSON race feed
const FeedSourceName = "feed"

const dataSourceDisabledMsg = "data source is disabled"

// FeedClient implements DataSource for a JSON race feed
type FeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Entry
}

// FeedRace represents a race as published by the feed
type FeedRace struct {
	ID      string            `json:"id"`
	Date    string            `json:"date"`
	Venue   string            `json:"venue"`
	Surface string            `json:"surface"`
	Runners []FeedRunnerEntry `json:"runners"`
	Results []FeedResultEntry `json:"results"`
}

// FeedRunnerEntry represents a runner entry from the feed. Odds and weight
// arrive as strings.
type FeedRunnerEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Odds   *string `json:"odds"`
	Weight *string `json:"weight"`
}

// FeedResultEntry represents a finishing position from the feed
type FeedResultEntry struct {
	HorseID  string `json:"horse_id"`
	Position *int   `json:"position"`
}

// NewFeedClient creates a new feed client
func NewFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *FeedClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &FeedClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger.WithField("source", FeedSourceName),
	}
}

// FetchRaces retrieves races within the specified date range
func (c *FeedClient) FetchRaces(ctx context.Context, startDate, endDate time.Time) ([]models.RaceRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/races?from=%s&to=%s", c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var feedRaces []FeedRace
	if err := c.getJSON(ctx, url, &feedRaces); err != nil {
		return nil, err
	}

	races := make([]models.RaceRecord, 0, len(feedRaces))
	for i := range feedRaces {
		races = append(races, c.convertRace(&feedRaces[i]))
	}

	return races, nil
}

// FetchRaceDetails retrieves a single race
func (c *FeedClient) FetchRaceDetails(ctx context.Context, raceID string) (*models.RaceRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(FeedSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	var feedRace FeedRace
	if err := c.getJSON(ctx, fmt.Sprintf("%s/races/%s", c.baseURL, raceID), &feedRace); err != nil {
		return nil, err
	}

	race := c.convertRace(&feedRace)
	return &race, nil
}

// Name returns the data source name
func (c *FeedClient) Name() string {
	return FeedSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *FeedClient) IsEnabled() bool {
	return c.enabled
}

func (c *FeedClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(FeedSourceName, ErrCodeNetworkError, "failed to create request", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(FeedSourceName, ErrCodeNetworkError, "failed to fetch races", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewDataSourceError(FeedSourceName, ErrCodeAuthenticationFailed,
			fmt.Sprintf("feed returned status %d", resp.StatusCode), ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return NewDataSourceError(FeedSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case http.StatusNotFound:
		return NewDataSourceError(FeedSourceName, ErrCodeNotFound, "race not found", ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(FeedSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(FeedSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

// convertRace converts the feed format to a race record. Unparseable odds or
// weights are left absent so the analysis stage can report the entry.
func (c *FeedClient) convertRace(feedRace *FeedRace) models.RaceRecord {
	race := models.RaceRecord{
		ID:      feedRace.ID,
		Venue:   feedRace.Venue,
		Surface: feedRace.Surface,
		Horses:  make([]models.HorseEntry, len(feedRace.Runners)),
	}

	if feedRace.Date != "" {
		if date, err := parseRaceDate(feedRace.Date); err == nil {
			race.Date = &date
		} else {
			c.logger.WithError(err).WithField("race_id", feedRace.ID).Warn("Failed to parse race date")
		}
	}

	for i, runner := range feedRace.Runners {
		entry := models.HorseEntry{
			ID:     runner.ID,
			Name:   runner.Name,
			Weight: toFloat(parseDecimal(runner.Weight)),
		}

		if runner.Odds != nil {
			odds, err := parseDecimalOdds(*runner.Odds)
			if err != nil {
				c.logger.WithError(err).WithField("horse_id", runner.ID).Warn("Failed to parse odds")
			}
			entry.Odds = toFloat(odds)
		}

		race.Horses[i] = entry
	}

	if len(feedRace.Results) > 0 {
		race.Results = make([]models.ResultEntry, len(feedRace.Results))
		for i, result := range feedRace.Results {
			race.Results[i] = models.ResultEntry{ID: result.HorseID, Position: result.Position}
		}
	}

	return race
}

// parseRaceDate accepts either a calendar date or an RFC3339 timestamp
func parseRaceDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
