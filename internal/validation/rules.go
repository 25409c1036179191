package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/marketing-dashboard/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Violation types reported in FieldError.Type.
//
// Dashboard consumers switch on these strings, so they must stay stable.
const (
	TypeIntParsing       = "int_parsing"
	TypeGreaterThanEqual = "greater_than_equal"
	TypeLessThanEqual    = "less_than_equal"
	TypeLiteralError     = "literal_error"
	TypeValueError       = "value_error"
)

// validate runs single-value checks. A *validator.Validate caches nothing
// per call and is safe for concurrent use across requests.
var validate = validator.New()

// IntBounds holds the inclusive bounds of an integer parameter.
// A nil bound is not checked.
type IntBounds struct {
	Min *int
	Max *int
}

// Between returns inclusive bounds [min, max].
func Between(min, max int) IntBounds {
	return IntBounds{Min: &min, Max: &max}
}

// AtLeast returns an inclusive lower bound with no upper bound.
func AtLeast(min int) IntBounds {
	return IntBounds{Min: &min}
}

// CheckInt coerces raw into an integer and checks it against bounds.
//
// Coercion runs first. If it fails, the only violation is int_parsing and no
// bound is checked. Otherwise the lower bound is checked before the upper
// bound and every failed bound yields its own violation.
func CheckInt(field, raw string, bounds IntBounds) (int, []errs.FieldError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, []errs.FieldError{{
			Field:   field,
			Type:    TypeIntParsing,
			Message: "Input should be a valid integer, unable to parse string as an integer",
			Input:   raw,
		}}
	}

	var violations []errs.FieldError

	if bounds.Min != nil {
		if fe := checkVar(field, raw, n, "gte="+strconv.Itoa(*bounds.Min)); fe != nil {
			violations = append(violations, *fe)
		}
	}

	if bounds.Max != nil {
		if fe := checkVar(field, raw, n, "lte="+strconv.Itoa(*bounds.Max)); fe != nil {
			violations = append(violations, *fe)
		}
	}

	return n, violations
}

// CheckEnum checks that raw is one of allowed.
func CheckEnum(field, raw string, allowed []string) (string, []errs.FieldError) {
	value := strings.TrimSpace(raw)

	if fe := checkVar(field, raw, value, "oneof="+strings.Join(allowed, " ")); fe != nil {
		return "", []errs.FieldError{*fe}
	}

	return value, nil
}

// checkVar runs one validator tag against value and converts a failure into
// a FieldError. It returns nil when the value satisfies the tag.
func checkVar(field, input string, value any, tag string) *errs.FieldError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		// InvalidValidationError: the tag itself is broken, which is a
		// programming error, but the client still gets a structured detail.
		return &errs.FieldError{
			Field:   field,
			Type:    TypeValueError,
			Message: err.Error(),
			Input:   input,
		}
	}

	fieldErr := validationErrors[0]

	return &errs.FieldError{
		Field:   field,
		Type:    violationType(fieldErr.Tag()),
		Message: violationMessage(fieldErr.Tag(), fieldErr.Param()),
		Input:   input,
	}
}

// violationType maps a validator tag to the public violation type.
func violationType(tag string) string {
	switch tag {
	case "gte", "min":
		return TypeGreaterThanEqual
	case "lte", "max":
		return TypeLessThanEqual
	case "oneof":
		return TypeLiteralError
	default:
		return TypeValueError
	}
}

// violationMessage converts a validator tag into a user-friendly message.
func violationMessage(tag, param string) string {
	switch tag {
	case "gte", "min":
		return fmt.Sprintf("Input should be greater than or equal to %s", param)

	case "lte", "max":
		return fmt.Sprintf("Input should be less than or equal to %s", param)

	case "oneof":
		return fmt.Sprintf("Input should be %s", quoteChoices(strings.Fields(param)))

	default:
		if param != "" {
			return fmt.Sprintf("Input failed %s:%s", tag, param)
		}
		return fmt.Sprintf("Input failed %s", tag)
	}
}

// quoteChoices renders allowed values as "'a', 'b' or 'c'".
func quoteChoices(choices []string) string {
	quoted := make([]string, len(choices))
	for i, c := range choices {
		quoted[i] = "'" + c + "'"
	}

	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
	}
}
