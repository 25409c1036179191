// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. FieldErrors for query validation or HTTPError for API responses)..
// to ensure the client receive meaningful, actionable, and consistent..
// error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Support field-level validation errors for query parameters.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// ValidationErrorMessage is the top-level "error" value of every
// validation envelope. Dashboard clients match on it, so it never changes.
const ValidationErrorMessage = "Validation Error"

// ValidationErrorCode is the machine-friendly code of the validation envelope.
const ValidationErrorCode = "VALIDATION_ERROR"

// FieldError represents one violated constraint on one request parameter.
// Example:
//
//	{ "field": "limit", "type": "less_than_equal", "message": "Input should be less than or equal to 100", "input": "101" }
type FieldError struct {
	// Field is the parameter name the error relates to (e.g. "limit").
	Field string `json:"field"`

	// Type is the violation kind (int_parsing, greater_than_equal, ...).
	// The set of values is a stable contract with API consumers.
	Type string `json:"type"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Input is the raw value the client sent.
	Input string `json:"input,omitempty"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// It is designed to be serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, serialized as "error".
//   - Status: HTTP status code.
//   - Override: flag to let middleware decide whether to override the message.
//   - Details: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"error"`
	Status   int    `json:"status"`
	Override bool   `json:"-"`

	// Details holds field-level validation errors, one per violated constraint.
	Details []FieldError `json:"details,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// It returns the Message, so printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// This implementation returns true if `target` is also a *HTTPError.
// It does NOT compare Code/Status/etc, only the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
//
// Useful if you have a base error template and want to customize message
// without mutating the original.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Details:  e.Details,
	}
}

// IsValidation reports whether the error is the 400 validation envelope.
func (e *HTTPError) IsValidation() bool {
	return e.Code == ValidationErrorCode && len(e.Details) > 0
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
