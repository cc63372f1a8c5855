package api

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TransportOption is a functional option for configuring a Transport.
type TransportOption func(*Transport)

// WithBaseURL sets the backend base URL.
// If not set, defaults to the STOREFRONT_API_URL environment variable.
func WithBaseURL(url string) TransportOption {
	return func(t *Transport) {
		t.baseURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 10 seconds.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// Useful for testing, proxying, or custom cookie handling. Note that the
// refresh flow relies on the client's cookie jar for ambient credentials.
func WithHTTPClient(hc *http.Client) TransportOption {
	return func(t *Transport) {
		t.httpClient = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) TransportOption {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithTracer sets the tracer used for per-attempt spans.
func WithTracer(tracer trace.Tracer) TransportOption {
	return func(t *Transport) {
		t.tracer = tracer
	}
}

// WithSessionExpiredHook registers a callback fired after a failed token
// refresh has cleared the persisted token.
func WithSessionExpiredHook(fn func()) TransportOption {
	return func(t *Transport) {
		t.onSessionExpired = fn
	}
}
