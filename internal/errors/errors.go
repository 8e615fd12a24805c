// Package errors provides a small structured error type (BuilderError) used to
// classify failures for CLI presentation and exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory classifies where a failure originated.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External tool failures
	CategoryAutogen   ErrorCategory = "autogen"
	CategorySphinx    ErrorCategory = "sphinx"
	CategoryPostBuild ErrorCategory = "postbuild"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// ContextFields carries structured context for BuilderError.
type ContextFields map[string]any

// BuilderError is a classified error with optional cause and context.
type BuilderError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

func (e *BuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// WithContext adds a context field and returns the receiver for chaining.
func (e *BuilderError) WithContext(key string, value any) *BuilderError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a BuilderError without a cause.
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuilderError {
	return &BuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a BuilderError around an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuilderError {
	return &BuilderError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first BuilderError in err's chain.
func As(err error) (*BuilderError, bool) {
	var be *BuilderError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory reports whether err carries a BuilderError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := As(err); ok {
		return be.Category == category
	}
	return false
}
