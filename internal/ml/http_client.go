// Package ml provides the remote confidence model client.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/config"
	"github.com/yourusername/race-advisor/internal/logger"
	"github.com/yourusername/race-advisor/internal/metrics"
	"github.com/yourusername/race-advisor/internal/models"
)

const confidencePath = "/api/v1/confidence"

// ModelClient scores horses against the ML service's confidence endpoint.
// It implements analysis.ConfidenceProvider.
type ModelClient struct {
	client       *http.Client
	baseURL      string
	modelVersion string
	logger       *logger.MLLogger
}

// NewModelClient creates a new HTTP client for the ML service
func NewModelClient(cfg *config.MLServiceConfig, baseLogger *logrus.Logger) *ModelClient {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}

	return &ModelClient{
		client:       &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		modelVersion: cfg.ModelVersion,
		logger:       logger.NewMLLogger(baseLogger),
	}
}

// ConfidenceRequest is the payload sent for one horse
type ConfidenceRequest struct {
	ModelVersion string                     `json:"model_version,omitempty"`
	HorseID      string                     `json:"horse_id"`
	HorseName    string                     `json:"horse_name"`
	Odds         *float64                   `json:"odds"`
	Weight       *float64                   `json:"weight,omitempty"`
	Profile      *models.PerformanceProfile `json:"profile,omitempty"`
}

// ConfidenceResponse is the ML service reply
type ConfidenceResponse struct {
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

// ModelVersion returns the model version requested from the service
func (c *ModelClient) ModelVersion() string {
	return c.modelVersion
}

// Confidence requests a confidence for the horse from the ML service
func (c *ModelClient) Confidence(ctx context.Context, horse models.HorseEntry, profile *models.PerformanceProfile) (float64, error) {
	start := time.Now()

	jsonData, err := json.Marshal(ConfidenceRequest{
		ModelVersion: c.modelVersion,
		HorseID:      horse.ID,
		HorseName:    horse.Name,
		Odds:         horse.Odds,
		Weight:       horse.Weight,
		Profile:      profile,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confidencePath, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		err = c.transportError(ctx, err)
		c.logger.LogConfidenceFailure(c.modelVersion, horse.ID, err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: confidence request failed with status %d: %s", ErrMLServiceUnavailable, resp.StatusCode, string(body))
		c.logger.LogConfidenceFailure(c.modelVersion, horse.ID, err)
		return 0, err
	}

	var out ConfidenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Confidence <= 0 || out.Confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence %v outside (0,1)", ErrInvalidResponse, out.Confidence)
	}

	elapsed := time.Since(start)
	metrics.RecordConfidenceLatency(elapsed.Seconds())
	c.logger.LogConfidenceRequest(c.modelVersion, horse.ID, profile != nil, false, float64(elapsed.Milliseconds()))

	return out.Confidence, nil
}

// HealthCheck checks ML service health
func (c *ModelClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrMLServiceUnavailable, resp.StatusCode)
	}

	return nil
}

func (c *ModelClient) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
}
