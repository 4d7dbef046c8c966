package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &stageError{
		marker:  marker,
		detail:  buildDetail(stage, operation, message),
		message: strings.TrimSpace(message),
		cause:   err,
	}
}

// ErrorDetails is the human-facing breakdown of a wrapped stage error.
type ErrorDetails struct {
	Kind    string
	Message string
	Cause   string
}

// Details extracts the user-facing message and marker kind from err. Errors
// not produced by Wrap report their full text as the message.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var se *stageError
	if errors.As(err, &se) {
		details := ErrorDetails{Kind: se.marker.Error(), Message: se.message}
		if details.Message == "" {
			details.Message = se.detail
		}
		if se.cause != nil {
			details.Cause = se.cause.Error()
		}
		return details
	}
	return ErrorDetails{Kind: Kind(err), Message: err.Error()}
}

// Kind names the marker carried by err, or "unknown".
func Kind(err error) string {
	for _, marker := range []error{ErrValidation, ErrConfiguration, ErrNotFound, ErrTimeout, ErrExternalTool, ErrTransient} {
		if errors.Is(err, marker) {
			return marker.Error()
		}
	}
	return "unknown"
}

type stageError struct {
	marker  error
	detail  string
	message string
	cause   error
}

func (e *stageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.marker, e.detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.marker, e.detail)
}

func (e *stageError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
