package backend

import "errors"

var (
	// ErrNotConfigured indicates no backend URL is set.
	ErrNotConfigured = errors.New("survey backend not configured")

	// ErrUnavailable indicates the backend could not be reached or failed
	// with a server error.
	ErrUnavailable = errors.New("survey backend unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("survey backend request timed out")

	// ErrRejected indicates the backend refused the request (4xx).
	ErrRejected = errors.New("survey backend rejected request")

	// ErrNotFound indicates the requested remote resource does not exist.
	ErrNotFound = errors.New("remote resource not found")

	// ErrInvalidResponse indicates a response body could not be decoded.
	ErrInvalidResponse = errors.New("invalid backend response")
)
