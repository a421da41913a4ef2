package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/race-advisor/internal/config"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxRetries          int
	RetryWaitMin        time.Duration
	RetryWaitMax        time.Duration
	RateLimit           float64       // requests per second
	CircuitBreakerMax   int           // max consecutive failures before circuit break
	BreakerResetTimeout time.Duration // open time before a trial request is let through
	UserAgent           string
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             10 * time.Second,
		MaxRetries:          3,
		RetryWaitMin:        100 * time.Millisecond,
		RetryWaitMax:        5 * time.Second,
		RateLimit:           2.0,
		CircuitBreakerMax:   5,
		BreakerResetTimeout: 30 * time.Second,
	}
}

// HTTPClientConfigFrom builds a client configuration from application config
func HTTPClientConfigFrom(cfg *config.Config) HTTPClientConfig {
	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = cfg.HTTPTimeout()
	clientCfg.MaxRetries = cfg.HTTPClient.MaxRetries
	clientCfg.RateLimit = cfg.HTTPClient.RateLimit
	clientCfg.CircuitBreakerMax = cfg.HTTPClient.CircuitBreakerMax
	if cfg.HTTPClient.CircuitBreakerResetSeconds > 0 {
		clientCfg.BreakerResetTimeout = time.Duration(cfg.HTTPClient.CircuitBreakerResetSeconds) * time.Second
	}
	clientCfg.UserAgent = cfg.DataSources.HKJC.UserAgent
	return clientCfg
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and circuit breaker
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	userAgent         string
	circuitBreakerMax int

	mu                sync.Mutex
	resetTimeout      time.Duration
	consecutiveErrors int
	isOpen            bool
	trialInFlight     bool
	openedAt          time.Time
	lastError         error
	now               func() time.Time

	logger *logrus.Logger
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand the final response back so callers can report the status code
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{logger.WithField("component", "http_client")}

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		userAgent:         cfg.UserAgent,
		circuitBreakerMax: cfg.CircuitBreakerMax,
		resetTimeout:      cfg.BreakerResetTimeout,
		now:               time.Now,
		logger:            logger,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.allowRequest(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.releaseTrial()
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		c.releaseTrial()
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	resp, err := c.client.Do(retryReq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("server error: status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}

	return resp, nil
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// IsOpen reports whether the circuit breaker is open
func (c *RateLimitedHTTPClient) IsOpen() bool {
	open, _ := c.breakerState()
	return open
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *RateLimitedHTTPClient) breakerState() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen, c.lastError
}

// allowRequest rejects requests while the breaker is open. Once the reset
// timeout has passed a single trial request is let through; its outcome
// closes or re-opens the breaker.
func (c *RateLimitedHTTPClient) allowRequest() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isOpen {
		return nil
	}
	if c.trialInFlight || c.now().Sub(c.openedAt) < c.resetTimeout {
		return fmt.Errorf("circuit breaker open: %v", c.lastError)
	}

	c.trialInFlight = true
	c.logger.Info("Circuit breaker half-open, sending trial request")
	return nil
}

// releaseTrial frees the trial slot when a request never reached the network
func (c *RateLimitedHTTPClient) releaseTrial() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trialInFlight = false
}

func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err
	if c.isOpen {
		// failed trial
		c.trialInFlight = false
		c.openedAt = c.now()
		return
	}
	if c.consecutiveErrors >= c.circuitBreakerMax {
		c.isOpen = true
		c.openedAt = c.now()
		c.logger.WithError(err).WithField("consecutive_errors", c.consecutiveErrors).Warn("Circuit breaker opened")
	}
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isOpen {
		c.logger.Info("Circuit breaker closed")
	}
	c.consecutiveErrors = 0
	c.isOpen = false
	c.trialInFlight = false
}

// retryLogger adapts logrus to retryablehttp.LeveledLogger
type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).Error(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kvFields(keysAndValues)).Warn(msg)
}

func kvFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, nil
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		return false, nil
	}
}
