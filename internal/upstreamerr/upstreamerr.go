// Package upstreamerr handles errors returned by the platform clients.
//
// It classifies a failed Meta, GA4 or Google Ads call and converts it into
// an application HTTPError. Platform failures are never the client's fault,
// so every converted error is a 500.
package upstreamerr

import (
	"context"
	"errors"
	"net"

	"github.com/deppfellow/marketing-dashboard/internal/platform"
)

// Kind is the category of a platform failure.
type Kind string

const (
	NotConnected Kind = "not_connected"
	APIFailure   Kind = "api_error"
	Timeout      Kind = "timeout"
	Network      Kind = "network"
	Other        Kind = "other"
)

// Error is a classified platform failure.
type Error struct {
	Platform   platform.Name
	Kind       Kind
	StatusCode int
	Message    string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Classify inspects err and reports which platform failed and how.
// platformHint is used when err itself does not name a platform.
func Classify(err error, platformHint platform.Name) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	out := &Error{Platform: platformHint, Kind: Other, cause: err}

	var connErr *platform.ConnectionError
	var apiErr *platform.APIError
	var netErr net.Error

	switch {
	case errors.As(err, &connErr):
		out.Kind = NotConnected
		out.Platform = connErr.Platform

	case errors.Is(err, platform.ErrNotConnected):
		out.Kind = NotConnected

	case errors.As(err, &apiErr):
		out.Kind = APIFailure
		out.Platform = apiErr.Platform
		out.StatusCode = apiErr.StatusCode
		out.Message = apiErr.Message

	case errors.Is(err, context.DeadlineExceeded):
		out.Kind = Timeout

	case errors.As(err, &netErr):
		out.Kind = Network
		if netErr.Timeout() {
			out.Kind = Timeout
		}
	}

	return out
}

// Wrap tags err with the platform that produced it so HandleError can name
// it even when the error carries no platform of its own.
func Wrap(name platform.Name, err error) error {
	if err == nil {
		return nil
	}
	return Classify(err, name)
}
