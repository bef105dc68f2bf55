package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/odensebartech/dashboard/internal/telemetry/metrics"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL = "http://api.odensebartech.com/api/v1"

	// error bodies are kept for logs only
	maxErrorBodyLen = 512
)

var (
	// ErrMissingToken is returned before any request is issued when the
	// request scoped session carries no access token.
	ErrMissingToken      = errors.New("missing access token")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a non-2xx answer of the remote API.
// It matches ErrUnauthorized for 401/403 and ErrNotFound for 404.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: remote status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// SessionProvider hands out the bearer token of the current request.
type SessionProvider interface {
	Token(ctx context.Context) (string, bool)
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	sessions       SessionProvider
	metricsManager *metrics.Manager
}

func NewClient(
	baseURL string,
	httpClient *http.Client,
	sessions SessionProvider,
	metricsManager *metrics.Manager,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

type call struct {
	op     string
	method string
	path   string
	body   any
	out    any
	// public calls carry no bearer token
	public bool
	// token overrides the session provider
	token string
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote."+cl.op)
	span.SetAttributes(
		attribute.String("remote.method", cl.method),
		attribute.String("remote.path", cl.path),
	)

	start := time.Now()
	err := c.send(ctx, cl)
	tracing.EndSpan(span, err)

	if c.metricsManager != nil {
		c.metricsManager.CounterRemoteCalls.WithLabelValues(cl.op, outcome(err)).Inc()
		c.metricsManager.HistRemoteCallDuration.WithLabelValues(cl.op).Observe(time.Since(start).Seconds())
	}

	return err
}

func (c *Client) send(ctx context.Context, cl call) error {
	token := cl.token
	if !cl.public && token == "" {
		sessionToken, ok := c.sessions.Token(ctx)
		if !ok {
			return ErrMissingToken
		}
		token = sessionToken
	}

	var body io.Reader
	if cl.body != nil {
		reqBytes, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", cl.op, err)
		}
		body = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Tracef("remote call %s: %s %s", cl.op, cl.method, cl.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", cl.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := string(respBytes)
		if len(errBody) > maxErrorBodyLen {
			errBody = errBody[:maxErrorBodyLen]
		}
		return &StatusError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Body:       errBody,
		}
	}

	if cl.out == nil {
		return nil
	}

	if err := json.Unmarshal(respBytes, cl.out); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, cl.op, err)
	}

	return nil
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &statusErr):
		return "status_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "transport_error"
	}
}
