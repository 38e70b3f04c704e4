package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryClassify Category = "classify"
	CategoryRender   Category = "render"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// CatalystError is a structured error with a code, suggestions, and documentation.
type CatalystError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, manifest, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *CatalystError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *CatalystError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *CatalystError) WithSuggestion(s string) *CatalystError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *CatalystError) WithDetail(d string) *CatalystError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *CatalystError) Wrap(err error) *CatalystError {
	e.Wrapped = err
	return e
}

// New creates a CatalystError from a registered error code.
func New(code string) *CatalystError {
	template, ok := registry[code]
	if !ok {
		return &CatalystError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &CatalystError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new CatalystError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *CatalystError {
	return &CatalystError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a CatalystError.
func FromError(err error, code string) *CatalystError {
	if err == nil {
		return nil
	}
	return New(code).Wrap(err)
}
