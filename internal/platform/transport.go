package platform

import (
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// MaxErrorBody caps how much of an upstream error body is read.
const MaxErrorBody = 64 << 10

// NewRetryableClient builds the HTTP transport shared by the REST platform
// clients: bounded retries with backoff on 429/5xx and connection errors.
func NewRetryableClient(name Name, logger *zerolog.Logger, timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = timeout

	// Hand the last response back after the final retry so callers can
	// read the platform's error body.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if logger != nil {
		l := logger.With().Str("platform", string(name)).Logger()
		client.Logger = leveledLogger{logger: &l}
	} else {
		client.Logger = nil
	}

	return client
}

// ReadError converts a non-2xx response into an APIError. message extracts
// the platform's own error text from the body; it may return "".
func ReadError(name Name, resp *http.Response, message func(body []byte) string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))

	msg := ""
	if message != nil {
		msg = message(body)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{
		Platform:   name,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

// Debug is where retryablehttp reports every request; keep it at trace.
func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
