package validation

import (
	"net/url"
	"strings"

	"github.com/deppfellow/marketing-dashboard/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request types that know how to read and
// check their own query parameters.
//
// Typical pattern:
//   - Define a request struct with one field per parameter.
//   - Implement BindQuery(q) and read every field through q (q.Int, q.Enum, ...).
//   - Never return early: q collects violations from every parameter.
type Validatable interface {
	BindQuery(q *Query)
}

// Query reads declared parameters from a query string and accumulates
// violations. It is created per request and never shared.
type Query struct {
	values     url.Values
	violations []errs.FieldError
}

// NewQuery wraps raw query values.
func NewQuery(values url.Values) *Query {
	return &Query{values: values}
}

// lookup returns the first value of name. Only a missing key is absent;
// an empty value is present and goes through the checks.
func (q *Query) lookup(name string) (string, bool) {
	vals, ok := q.values[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Int reads an integer parameter. Absent parameters take def.
func (q *Query) Int(name string, def int, bounds IntBounds) int {
	raw, ok := q.lookup(name)
	if !ok {
		return def
	}

	n, violations := CheckInt(name, raw, bounds)
	if len(violations) > 0 {
		q.violations = append(q.violations, violations...)
		return def
	}

	return n
}

// Enum reads a parameter restricted to allowed. Absent parameters take def.
func (q *Query) Enum(name, def string, allowed ...string) string {
	raw, ok := q.lookup(name)
	if !ok {
		return def
	}

	value, violations := CheckEnum(name, raw, allowed)
	if len(violations) > 0 {
		q.violations = append(q.violations, violations...)
		return def
	}

	return value
}

// String reads an unconstrained parameter. Absent parameters take def.
func (q *Query) String(name, def string) string {
	raw, ok := q.lookup(name)
	if !ok {
		return def
	}
	return strings.TrimSpace(raw)
}

// Violations returns every violation recorded so far.
func (q *Query) Violations() []errs.FieldError {
	return q.violations
}

// Err returns the validation envelope if any violation was recorded.
func (q *Query) Err() error {
	if len(q.violations) == 0 {
		return nil
	}
	return errs.NewValidationError(q.violations)
}

// BindAndValidate reads the request's query string into payload.
//
// Flow:
//  1. Wrap c.QueryParams() in a fresh Query.
//  2. payload.BindQuery(q) reads and checks every declared parameter.
//  3. Returns *errs.HTTPError (400) listing all violations, or nil.
//
// NOTE: payload must be a pointer so BindQuery can populate it.
func BindAndValidate(c echo.Context, payload Validatable) error {
	q := NewQuery(c.QueryParams())
	payload.BindQuery(q)
	return q.Err()
}
