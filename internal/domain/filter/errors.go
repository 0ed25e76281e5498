package filter

import "errors"

// Sentinel reasons for rejected input. A *ValidationError unwraps to one of them.
var (
	ErrMissingDate      = errors.New("missing date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMagnitude = errors.New("invalid magnitude")
	ErrInvalidRegion    = errors.New("invalid region")
)

// ValidationError reports bad or missing user input. It is raised before any
// catalog request is built.
type ValidationError struct {
	Reason error
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	msg := "ValidationError: " + e.Reason.Error()
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func invalid(reason error, field, detail string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field, Detail: detail}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
