package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested movie does not exist upstream
	ErrNotFound = errors.New("movie not found")

	// ErrNotAuthenticated indicates an operation requires a logged in user
	ErrNotAuthenticated = errors.New("login required")

	// ErrMissingAPIKey indicates no catalog credential is configured
	ErrMissingAPIKey = errors.New("catalog API key is not configured")
)

// DefaultTransportMessage is shown when a network failure carries no message
const DefaultTransportMessage = "Network error: unable to reach the movie service"

// ValidationError reports rejected user input. It is returned inline and never persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UpstreamError is a 4xx/5xx or malformed response from the catalog API.
// Message carries the upstream status_message verbatim.
type UpstreamError struct {
	StatusCode int    // HTTP status
	Code       int    // Upstream status_code, 0 if absent
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog API error (%d): %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// TransportError wraps a failure to reach the catalog API at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return DefaultTransportMessage
	}
	return fmt.Sprintf("catalog API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DisplayMessage renders an error for display in a view
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return DefaultTransportMessage
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	return err.Error()
}
