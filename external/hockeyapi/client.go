package hockeyapi

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	maxResponseBytes = 6 << 20
	breakerName      = "hockey-api"
)

var errBackendTransient = crerr.New("hockey api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the backend of record. It serves live_data polls, counter
// patches, game-event edits, spray-chart queries and the metadata lists.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid HOCKEY_API_BASE_URL")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	breaker := resilience.NewCircuitBreaker(breakerName, cfg.CircuitBreaker).
		OnStateChange(func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
		})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// retry allows resending after transient failures; only reads set it.
	retry bool
	// shared collapses identical concurrent requests into one round trip.
	shared bool
}

func getRequest(path string) request {
	return request{method: http.MethodGet, path: path, retry: true, shared: true}
}

// do sends req and decodes a 2xx body into target (when non-nil). It returns
// the raw body for callers that keep it.
func (c *Client) do(ctx context.Context, req request, target any) ([]byte, error) {
	fullURL := c.baseURL + req.path
	if encoded := req.query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	var body []byte
	if req.body != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)
		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(req.body); err != nil {
			return nil, crerr.Wrap(err, "encode request body")
		}
		body = buf.B
	}

	call := func() ([]byte, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "hockey api circuit breaker rejected request", "state", c.breaker.State(), "path", req.path)
			return nil, fmt.Errorf("%w: backend of record is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		raw, err := c.execute(ctx, req, fullURL, body)
		c.breaker.Record(err, isCircuitFailure)
		return raw, err
	}

	var (
		raw []byte
		err error
	)
	if req.shared && body == nil {
		raw, err, _ = c.flight.Do(req.method+" "+fullURL, call)
	} else {
		raw, err = call()
	}
	if err != nil {
		return nil, err
	}

	if target != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, crerr.Wrapf(err, "decode %s %s payload", req.method, req.path)
		}
	}
	return raw, nil
}

func (c *Client) execute(ctx context.Context, req request, fullURL string, body []byte) ([]byte, error) {
	attempts := 1
	if req.retry {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, reader)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		httpReq.Header.Set("Accept", "application/json")
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errBackendTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errBackendTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: backend status=%d body=%s", errBackendTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, statusError(req, resp.StatusCode, raw)
			}
		}

		if attempt == attempts-1 {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("backend request failed")
	}
	c.logger.WarnContext(ctx, "hockey api request failed",
		"method", req.method,
		"path", req.path,
		"attempts", attempts,
		"error", lastErr,
	)
	return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, lastErr)
}

func statusError(req request, code int, raw []byte) error {
	err := fmt.Errorf("%s %s backend status=%d body=%s", req.method, req.path, code, abbreviateBody(raw))
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", usecase.ErrNotFound, err)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
	default:
		return err
	}
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errBackendTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
