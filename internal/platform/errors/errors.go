package errors

import (
	"bytes"
	stderrors "errors"
	"text/template"

	"github.com/louisbranch/liarsdice/internal/platform/i18n"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata for message templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		Cause:    cause,
	}
}

// GetCode extracts the domain code from anywhere in err's chain.
// Returns CodeUnknown when err carries no domain error.
func GetCode(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// Localize renders the user-facing message for err in locale.
//
// The message template is looked up under "errors.<CODE>" with base-locale
// fallback and executed against the error metadata. Errors without a domain
// code, or codes without a template, render their internal message.
func Localize(locale string, err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if !stderrors.As(err, &domainErr) {
		return err.Error()
	}
	tmpl, ok := i18n.Default().Message(locale, "errors."+string(domainErr.Code))
	if !ok {
		return domainErr.Error()
	}
	metadata := domainErr.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, parseErr := template.New("msg").Parse(tmpl)
	if parseErr != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if execErr := t.Execute(&buf, metadata); execErr != nil {
		return tmpl
	}
	return buf.String()
}
