package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorMatchesNotFound(t *testing.T) {
	notFound := &UpstreamError{StatusCode: http.StatusNotFound, Code: 34, Message: "The resource you requested could not be found."}
	wrapped := fmt.Errorf("fetching details: %w", notFound)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(&UpstreamError{StatusCode: http.StatusUnauthorized}, ErrNotFound))
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, DefaultTransportMessage, (&TransportError{}).Error())
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"upstream verbatim", &UpstreamError{StatusCode: 401, Message: "Invalid API key: You must be granted a valid key."}, "Invalid API key: You must be granted a valid key."},
		{"wrapped upstream", fmt.Errorf("search: %w", &UpstreamError{StatusCode: 500, Message: "boom"}), "boom"},
		{"transport", &TransportError{Err: errors.New("dial tcp: timeout")}, DefaultTransportMessage},
		{"validation", &ValidationError{Field: "query", Message: "Search query is required"}, "Search query is required"},
		{"plain", errors.New("something else"), "something else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid year: must be positive", (&ValidationError{Field: "year", Message: "must be positive"}).Error())
	assert.Equal(t, "bad input", (&ValidationError{Message: "bad input"}).Error())
}
