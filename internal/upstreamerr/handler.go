package upstreamerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/marketing-dashboard/internal/errs"
	"github.com/deppfellow/marketing-dashboard/internal/platform"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateErrorCode builds <PLATFORM>_<ACTION>, e.g. META_NOT_CONNECTED.
func generateErrorCode(name platform.Name, kind Kind) string {
	if name == "" {
		return errs.MakeUpperCaseWithUnderscores("Internal Server Error")
	}

	action := "ERROR"
	switch kind {
	case NotConnected:
		action = "NOT_CONNECTED"
	case APIFailure:
		action = "API_ERROR"
	case Timeout:
		action = "TIMEOUT"
	case Network:
		action = "UNREACHABLE"
	}

	return fmt.Sprintf("%s_%s", strings.ToUpper(string(name)), action)
}

// displayName turns "google_analytics" into "Google Analytics".
func displayName(name platform.Name) string {
	if name == "" {
		return "Platform"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(name), "_", " "))
}

// formatMessage produces the client-facing message for a failure.
func formatMessage(e *Error) string {
	platformName := displayName(e.Platform)

	switch e.Kind {
	case NotConnected:
		return fmt.Sprintf("%s is not connected", platformName)

	case APIFailure:
		if e.Message != "" {
			return fmt.Sprintf("%s API error: %s", platformName, e.Message)
		}
		return fmt.Sprintf("%s API error (status %d)", platformName, e.StatusCode)

	case Timeout:
		return fmt.Sprintf("%s did not respond in time", platformName)

	case Network:
		return fmt.Sprintf("%s could not be reached", platformName)

	default:
		return "An error occurred while processing your request"
	}
}

// HandleError converts an error from a platform call into an HTTPError.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - classified platform failure: 500 with a <PLATFORM>_<ACTION> code
//   - anything else: a generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	classified := Classify(err, "")
	if classified.Platform == "" && classified.Kind == Other {
		return errs.NewInternalServerError()
	}

	return errs.NewUpstreamError(
		generateErrorCode(classified.Platform, classified.Kind),
		formatMessage(classified),
	)
}
