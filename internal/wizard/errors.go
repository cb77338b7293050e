package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-simulator/internal/gate"
)

// MissingPrerequisiteError is returned when a round is entered out of order.
type MissingPrerequisiteError = gate.MissingPrerequisiteError

// ErrNoReport is returned by Export before a report exists.
var ErrNoReport = errors.New("no feedback report has been generated")

// ValidationError blocks a submission. Nothing is written when it is returned.
type ValidationError struct {
	Field   string
	Message string
	// Remaining is the number of unanswered items, when that applies.
	Remaining int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

var setupFieldLabels = map[string]string{
	"JobTitle":   "jobTitle",
	"Company":    "company",
	"Experience": "experience",
}

// setupValidationError turns validator errors from a SetupRequest into a ValidationError
// for the first failing field.
func setupValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "setup", Message: err.Error()}
	}
	fe := verrs[0]
	field, ok := setupFieldLabels[fe.Field()]
	if !ok {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: "Please fill in all required fields"}
	case "oneof":
		return &ValidationError{
			Field:   field,
			Message: "Experience must be one of " + strings.ReplaceAll(fe.Param(), " ", ", "),
		}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("invalid value for %s", field)}
	}
}
