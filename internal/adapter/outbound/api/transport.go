// Package api is the HTTP adapter for the storefront backend. It wraps
// outbound requests with bearer credentials, retries once on authorization
// failure via token refresh, and exposes a typed endpoint client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
)

// Transport performs JSON round-trips to the backend. Every request reads
// the persisted token fresh at send time. A single 401 triggers one token
// refresh and one retry of the original request; concurrent 401s share one
// in-flight refresh.
type Transport struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokens     outbound.TokenStore
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer

	// refreshGroup coalesces concurrent token refreshes so that N
	// simultaneous 401s result in exactly one /auth/refresh call.
	refreshGroup singleflight.Group

	// onSessionExpired fires after a failed refresh has cleared the
	// persisted token. The session layer uses it to drop local state.
	onSessionExpired func()
}

// NewTransport creates a Transport for the given token store.
// It reads defaults from STOREFRONT_* environment variables; options
// override them.
func NewTransport(tokens outbound.TokenStore, opts ...TransportOption) *Transport {
	t := &Transport{
		baseURL: os.Getenv("STOREFRONT_API_URL"),
		timeout: parseDurationEnv("STOREFRONT_HTTP_TIMEOUT", 10*time.Second),
		tokens:  tokens,
		logger:  slog.Default(),
		tracer:  otel.Tracer("storefront/api"),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.httpClient == nil {
		// The cookie jar carries the ambient refresh credential; the
		// refresh endpoint authenticates by cookie, not bearer header.
		jar, _ := cookiejar.New(nil)
		t.httpClient = &http.Client{
			Timeout: t.timeout,
			Jar:     jar,
		}
	}

	return t
}

// shouldRetry reports whether a request that failed with the given HTTP
// status should be re-issued. Only the first attempt may be retried, and
// only after an authorization failure.
func shouldRetry(attempt, status int) bool {
	return attempt == 0 && status == http.StatusUnauthorized
}

// Do sends a JSON request and decodes the response into result (when
// non-nil). On a 401 it refreshes the access token and retries the original
// request exactly once; a failed refresh clears the persisted token and
// surfaces as *SessionExpiredError.
func (t *Transport) Do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	token, err := t.tokens.Load()
	if err != nil {
		t.logger.Warn("failed to load persisted token", "error", err)
		token = ""
	}

	requestID := uuid.NewString()
	for attempt := 0; ; attempt++ {
		err := t.roundTrip(ctx, method, path, payload, result, token, requestID, attempt)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !shouldRetry(attempt, apiErr.Status) {
			return err
		}

		refreshed, refreshErr := t.refresh(ctx)
		if refreshErr != nil {
			if clearErr := t.tokens.Clear(); clearErr != nil {
				t.logger.Warn("failed to clear persisted token", "error", clearErr)
			}
			t.logger.Info("token refresh failed, session expired",
				"request_id", requestID, "error", refreshErr)
			if t.onSessionExpired != nil {
				t.onSessionExpired()
			}
			return &SessionExpiredError{Cause: refreshErr}
		}
		token = refreshed
	}
}

// roundTrip performs one HTTP attempt. It injects the bearer token when one
// is present and decodes 2xx bodies into result. Non-2xx responses become
// *APIError with the server-supplied message when the body carries one.
func (t *Transport) roundTrip(ctx context.Context, method, path string, payload []byte, result any, token, requestID string, attempt int) error {
	ctx, span := t.tracer.Start(ctx, "storefront.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("url.path", path),
			attribute.Int("attempt", attempt),
		))
	defer span.End()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if t.metrics != nil {
		t.metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		t.recordOutcome(span, method, "error", err)
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.recordOutcome(span, method, "error", err)
		return fmt.Errorf("read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Status:    resp.StatusCode,
			Message:   extractMessage(respBody),
			RequestID: requestID,
		}
		t.recordOutcome(span, method, strconv.Itoa(resp.StatusCode), apiErr)
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			t.recordOutcome(span, method, "error", err)
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	t.recordOutcome(span, method, "ok", nil)
	return nil
}

// recordOutcome updates metrics and the span for one attempt.
func (t *Transport) recordOutcome(span trace.Span, method, status string, err error) {
	if t.metrics != nil {
		t.metrics.RequestsTotal.WithLabelValues(method, status).Inc()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// refresh exchanges the ambient refresh credential for a new access token
// and persists it. Concurrent callers share one in-flight refresh.
func (t *Transport) refresh(ctx context.Context) (string, error) {
	v, err, _ := t.refreshGroup.Do("token-refresh", func() (any, error) {
		var env struct {
			AccessToken string `json:"accessToken"`
		}
		// No bearer header on the refresh call: token "" keeps it off,
		// the cookie jar supplies the refresh credential.
		err := t.roundTrip(ctx, http.MethodPost, "/auth/refresh", nil, &env, "", uuid.NewString(), 0)
		if err != nil {
			if t.metrics != nil {
				t.metrics.TokenRefreshes.WithLabelValues("error").Inc()
			}
			return nil, err
		}
		if env.AccessToken == "" {
			if t.metrics != nil {
				t.metrics.TokenRefreshes.WithLabelValues("error").Inc()
			}
			return nil, errors.New("refresh response missing access token")
		}
		if err := t.tokens.Save(env.AccessToken); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
		if t.metrics != nil {
			t.metrics.TokenRefreshes.WithLabelValues("ok").Inc()
		}
		t.logger.Debug("access token refreshed")
		return env.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// extractMessage pulls the server-supplied message field out of an error
// response body. Returns "" when the body is not a JSON object with one.
func extractMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

func parseDurationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultVal
}
