// Package server exposes the interview wizard over HTTP.
package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/fetch"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/wizard"
)

// StatusPreconditionRequired is returned when the provider key is missing.
const StatusPreconditionRequired = http.StatusPreconditionRequired

// ErrImportDisabled is returned when no job page importer is configured.
var ErrImportDisabled = errors.New("job description import is not configured")

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation *wizard.ValidationError
		missing    *gate.MissingPrerequisiteError
		fetchErr   *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrMissingCredential):
		return StatusPreconditionRequired
	case errors.As(err, &missing),
		errors.Is(err, feedback.ErrIncompleteSession),
		errors.Is(err, content.ErrNoSetup),
		errors.Is(err, content.ErrMissingArtifact),
		errors.Is(err, content.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrNoReport):
		return http.StatusNotFound
	case errors.Is(err, ErrImportDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &fetchErr):
		if fetchErr.Message == "invalid URL" {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case content.IsProviderError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	// Redirect is the route the client should navigate to.
	Redirect string `json:"redirect,omitempty"`
	Notice   string `json:"notice,omitempty"`
}

// errorBody builds the response body for err. Internal errors are not echoed.
func errorBody(err error, status int) ErrorBody {
	var (
		validation *wizard.ValidationError
		missing    *gate.MissingPrerequisiteError
	)
	switch {
	case errors.As(err, &validation):
		return ErrorBody{Error: validation.Message, Field: validation.Field, Remaining: validation.Remaining}
	case errors.As(err, &missing):
		return ErrorBody{
			Error:    missing.Error(),
			Redirect: routePath(missing.Redirect),
			Notice:   missing.Notice(),
		}
	case errors.Is(err, content.ErrMissingCredential):
		return ErrorBody{
			Error:    "An API key is required to generate interview content",
			Redirect: "/credential",
			Notice:   "Please enter your API key",
		}
	case errors.Is(err, content.ErrNoSetup):
		return ErrorBody{Error: err.Error(), Redirect: routePath(gate.Setup), Notice: "Interview setup not found"}
	case status == http.StatusInternalServerError:
		return ErrorBody{Error: "internal server error"}
	default:
		return ErrorBody{Error: err.Error()}
	}
}

// routePath is the navigational route of a round.
func routePath(r gate.Round) string {
	return "/" + string(r)
}

// redirectURL is the route of r with the notice attached.
func redirectURL(r gate.Round, notice string) string {
	if notice == "" {
		return routePath(r)
	}
	return routePath(r) + "?" + url.Values{"notice": {notice}}.Encode()
}
