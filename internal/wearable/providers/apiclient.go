package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/wearsync/internal/telemetry/metrics"
	"github.com/2beens/wearsync/internal/telemetry/tracing"
	"github.com/2beens/wearsync/internal/wearable"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const maxErrorBodyLen = 512

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// ErrNoContent is returned for 204 responses, e.g. WHOOP recovery not scored yet.
var ErrNoContent = errors.New("no content")

// APIClient does authenticated GETs against one provider REST API. Calls are
// throttled by a token bucket and guarded by a circuit breaker that only
// counts transport errors and 5xx responses.
type APIClient struct {
	provider   wearable.Provider
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Manager
}

type APIClientParams struct {
	Provider          wearable.Provider
	BaseURL           string
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Metrics         *metrics.Manager
}

func NewAPIClient(params APIClientParams) *APIClient {
	if params.Timeout <= 0 {
		params.Timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: params.Timeout}
	if params.HTTPClient != nil {
		httpClient.Transport = params.HTTPClient.Transport
	}

	limit := rate.Inf
	if params.RequestsPerSecond > 0 {
		limit = rate.Limit(params.RequestsPerSecond)
	}
	if params.Burst <= 0 {
		params.Burst = 1
	}
	if params.BreakerFailures == 0 {
		params.BreakerFailures = 5
	}
	if params.BreakerCooldown <= 0 {
		params.BreakerCooldown = 30 * time.Second
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	provider := params.Provider
	breakerFailures := params.BreakerFailures
	return &APIClient{
		provider:   provider,
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, params.Burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "provider-" + provider.String(),
			MaxRequests: 1,
			Timeout:     params.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithField("provider", provider).Warnf("circuit breaker [%s]: %s -> %s", name, from, to)
			},
		}),
		metrics: params.Metrics,
	}
}

func (c *APIClient) Provider() wearable.Provider {
	return c.provider
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// HTTPClient is the timeout-bound client, for SDKs that build their own requests.
func (c *APIClient) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *APIClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Guard runs call under the rate limiter and circuit breaker. Errors that
// satisfy IsClientError do not count against the breaker.
func (c *APIClient) Guard(ctx context.Context, call func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var clientErr error
	_, err := c.breaker.Execute(func() (any, error) {
		err := call(ctx)
		if err != nil && IsClientError(err) {
			clientErr = err
			return nil, nil
		}
		return nil, err
	})
	if clientErr != nil {
		return clientErr
	}
	return err
}

// GetJSON fetches path (relative to the base URL) with a bearer token and
// decodes the JSON body into dst.
func (c *APIClient) GetJSON(ctx context.Context, path string, query url.Values, accessToken string, dst any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "providers.apiClient.getJSON")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("provider", c.provider.String()),
		attribute.String("path", path),
	)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return c.Guard(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.HistProviderCallDuration.WithLabelValues(c.provider.String(), "error").Observe(time.Since(start).Seconds())
			return fmt.Errorf("get %s: %w", path, err)
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()
		c.metrics.HistProviderCallDuration.WithLabelValues(c.provider.String(), strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

		if resp.StatusCode == http.StatusNoContent {
			return ErrNoContent
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
			return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	})
}

// IsClientError reports errors caused by the request itself (4xx, empty
// results), which say nothing about the provider's health.
func IsClientError(err error) bool {
	if errors.Is(err, ErrNoContent) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// Fetch runs one metric fetch and turns any failure into Absent, logging and
// counting it. Sibling fetches are unaffected.
func Fetch[T any](ctx context.Context, c *APIClient, kind wearable.MetricKind, fetch func(ctx context.Context) (T, error)) wearable.Optional[T] {
	v, err := fetch(ctx)
	if err != nil {
		c.metrics.CounterFetchFailures.WithLabelValues(c.provider.String(), string(kind)).Inc()
		entry := log.WithFields(log.Fields{
			"provider": c.provider,
			"metric":   kind,
		})
		if errors.Is(err, ErrNoContent) {
			entry.Debugln("no content")
		} else {
			entry.Warnf("fetch failed: %s", err)
		}
		return wearable.Absent[T]()
	}
	return wearable.Present(v)
}

// FetchJSON is Fetch over a single GetJSON call.
func FetchJSON[T any](ctx context.Context, c *APIClient, kind wearable.MetricKind, path string, query url.Values, accessToken string) wearable.Optional[T] {
	return Fetch(ctx, c, kind, func(ctx context.Context) (T, error) {
		var v T
		err := c.GetJSON(ctx, path, query, accessToken, &v)
		return v, err
	})
}
