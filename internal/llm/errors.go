package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
)

// ErrMissingCredential is returned when no provider API key is configured.
var ErrMissingCredential = errors.New("no API key configured")

// AuthError means the provider rejected the credential or its quota is spent.
type AuthError struct {
	Op         string
	StatusCode int
	Cause      error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: provider rejected credential (status %d): %v", e.Op, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: provider rejected credential: %v", e.Op, e.Cause)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// TransportError covers network failures, timeouts and provider-side outages.
type TransportError struct {
	Op         string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: provider unavailable (status %d): %v", e.Op, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: provider unavailable: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError means the provider answered with something unusable.
type MalformedResponseError struct {
	Op     string
	Reason string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Op, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IsProviderError reports whether err is one of the provider failure types.
func IsProviderError(err error) bool {
	var auth *AuthError
	var transport *TransportError
	var malformed *MalformedResponseError
	return errors.As(err, &auth) || errors.As(err, &transport) || errors.As(err, &malformed)
}

var authMarkers = []string{
	"api key not valid",
	"api_key_invalid",
	"permission_denied",
	"resource_exhausted",
	"quota",
}

// Classify wraps a raw provider error in AuthError, TransportError or
// MalformedResponseError. Errors that are already classified pass through.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMissingCredential) || IsProviderError(err) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Op: op, Cause: err}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &MalformedResponseError{Op: op, Reason: "response blocked", Cause: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusTooManyRequests:
			return &AuthError{Op: op, StatusCode: apiErr.Code, Cause: err}
		case apiErr.Code == http.StatusBadRequest && hasAuthMarker(apiErr.Message):
			return &AuthError{Op: op, StatusCode: apiErr.Code, Cause: err}
		default:
			return &TransportError{Op: op, StatusCode: apiErr.Code, Cause: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransportError{Op: op, Cause: err}
	}

	if hasAuthMarker(err.Error()) {
		return &AuthError{Op: op, Cause: err}
	}
	return &TransportError{Op: op, Cause: err}
}

func hasAuthMarker(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
