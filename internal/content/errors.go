package content

import (
	"errors"

	"github.com/jonathan/interview-simulator/internal/llm"
)

// Provider failures. Any of these makes a call site use its fallback.
type (
	AuthError              = llm.AuthError
	TransportError         = llm.TransportError
	MalformedResponseError = llm.MalformedResponseError
)

// ErrMissingCredential blocks generation until a provider key is entered.
var ErrMissingCredential = llm.ErrMissingCredential

var (
	// ErrNoSetup is returned when content is requested before an interview setup exists.
	ErrNoSetup = errors.New("interview setup not found")

	// ErrStaleResponse is returned when the session was reset while a request was in flight.
	// The response is discarded.
	ErrStaleResponse = errors.New("session changed while content was generating")
)

// IsProviderError reports whether err is a provider failure that calls for a fallback.
func IsProviderError(err error) bool {
	return llm.IsProviderError(err)
}
