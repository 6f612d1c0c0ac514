package util

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LeveledSlog adapts an slog.Logger to the retryablehttp.LeveledLogger interface.
type LeveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l LeveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

// re-writes HTTP client DEBUG to INFO level (this is where retry is logged)
func (l LeveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

// Generates an HTTP client with decent general-purpose defaults around
// timeouts and retries. The returned client has the stdlib http.Client
// interface, but has Hashicorp retryablehttp logic internally.
//
// This client will retry on connection errors, 5xx status (except 501), and
// 429 Backoff requests (respecting 'Retry-After' header). When retries are
// exhausted the last response is returned as-is. It will log
// intermediate failures with WARN level. Outbound requests are wrapped in
// OpenTelemetry client spans.
func RobustHTTPClient() *http.Client {
	return RobustHTTPClientWith(3, 20*time.Second)
}

// Variant of RobustHTTPClient with an explicit retry count and overall
// request timeout. Batch runs against rate-limited services want fewer retries.
func RobustHTTPClientWith(retries int, timeout time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.HTTPClient.Transport = otelhttp.NewTransport(retryClient.HTTPClient.Transport)
	retryClient.Logger = retryablehttp.LeveledLogger(LeveledSlog{slog.Default().With("system", "http")})
	// once retries run out, callers get the final response (and its status code) rather than a generic error
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}
