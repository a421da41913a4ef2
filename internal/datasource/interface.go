package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/race-advisor/internal/models"
)

// DataSource defines the interface for fetching racing data from external providers
type DataSource interface {
	// FetchRaces retrieves races within the specified date range
	FetchRaces(ctx context.Context, startDate, endDate time.Time) ([]models.RaceRecord, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors wrapped by DataSourceError
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrNoSources            = errors.New("no enabled data sources configured")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ReportError carries a structured unavailability report from a source that
// can describe why no corpus exists
type ReportError struct {
	Source string
	Report *models.SourceReport
}

func (e *ReportError) Error() string {
	return e.Source + ": " + string(e.Report.Status) + ": " + e.Report.Message
}

// IsAuthError checks if err is an authentication failure from any source
func IsAuthError(err error) bool {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code == ErrCodeAuthenticationFailed
	}
	return errors.Is(err, ErrAuthenticationFailed)
}
