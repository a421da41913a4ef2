// Package ml provides the remote confidence model client.
package ml

import "errors"

var (
	// ErrMLServiceUnavailable indicates the ML service is unreachable
	ErrMLServiceUnavailable = errors.New("ml service unavailable")

	// ErrConnectionFailed indicates the HTTP request could not be made
	ErrConnectionFailed = errors.New("ml service connection failed")

	// ErrTimeout indicates request timed out
	ErrTimeout = errors.New("request timeout")

	// ErrInvalidResponse indicates invalid response from ML service
	ErrInvalidResponse = errors.New("invalid response from ml service")
)
