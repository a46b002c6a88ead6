// Package remote is the wire client for a stateless SQL endpoint that speaks
// the libSQL HTTP pipeline protocol. Each call is one authenticated POST that
// carries every statement of the call followed by a close step; no session
// is kept between calls.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds each attempt. Exceeding it counts as a transient
// failure.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the client-generated ID of a logical call. Retries
// of the same call reuse the ID.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody caps how much of a non-2xx body is read for the error message.
const maxErrorBody = 64 << 10

// Client executes SQL statements against a remote pipeline endpoint.
// A Client is safe for concurrent use.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	delays   []time.Duration
	sleep    Sleeper
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is used as
// the per-attempt deadline.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for retry and failure reports.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryDelays overrides the backoff schedule. An empty schedule disables
// retries.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Client) { c.delays = append([]time.Duration(nil), delays...) }
}

// WithSleeper overrides how the client waits between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// New creates a Client for the database at baseURL, authenticating with
// token. libsql:// URLs are rewritten to https://.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	endpoint, err := pipelineURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: DefaultTimeout},
		delays:   DefaultRetryDelays,
		sleep:    SleepContext,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func pipelineURL(baseURL string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", ErrBaseURLEmpty
	}
	if rest, ok := strings.CutPrefix(base, "libsql://"); ok {
		base = "https://" + rest
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("parse database url: unsupported scheme %q", u.Scheme)
	}
	return base + PipelinePath, nil
}

// Endpoint returns the full pipeline URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute runs a single statement and returns its result.
func (c *Client) Execute(ctx context.Context, sql string, args ...any) (*Result, error) {
	return c.ExecuteBatch(ctx, []Statement{{SQL: sql, Args: args}})
}

// ExecuteBatch sends every statement in one pipeline request and returns the
// result of the first statement; results of later steps are not
// interpreted. If the first result is an error the call fails with a
// *RemoteError. Transport failures, timeouts, and temporary HTTP statuses are
// retried on the fixed backoff schedule, re-sending the whole batch, so
// non-idempotent statements may run more than once.
func (c *Client) ExecuteBatch(ctx context.Context, stmts []Statement) (*Result, error) {
	if len(stmts) == 0 {
		return nil, ErrEmptyBatch
	}
	body, err := json.Marshal(buildPipeline(stmts))
	if err != nil {
		return nil, fmt.Errorf("encode pipeline request: %w", err)
	}

	requestID := newRequestID()
	maxAttempts := len(c.delays) + 1
	policy := RetryPolicy{
		Delays: c.delays,
		Sleep:  c.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Warn("pipeline request failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"delay", delay,
				"error", err)
		},
	}

	res, err := Retry(ctx, policy, func(ctx context.Context, attempt int) (*Result, error) {
		return c.send(ctx, body, requestID)
	})
	if err != nil {
		c.logger.Error("pipeline request failed",
			"request_id", requestID,
			"statements", len(stmts),
			"error", err)
		return nil, err
	}
	return res, nil
}

// send performs one attempt. The request body is rebuilt from the encoded
// bytes on every call.
func (c *Client) send(ctx context.Context, body []byte, requestID string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build pipeline request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		se := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		if se.Temporary() {
			return nil, Retryable(se)
		}
		return nil, se
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(fmt.Errorf("read pipeline response: %w", err))
	}
	return decodeFirstResult(data)
}

// decodeFirstResult interprets a pipeline response body, returning the first
// step's result.
func decodeFirstResult(data []byte) (*Result, error) {
	var pr PipelineResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, &ProtocolError{Reason: "decode pipeline response", Cause: err}
	}
	if len(pr.Results) == 0 {
		return nil, &ProtocolError{Reason: ErrNoResults.Error(), Cause: ErrNoResults}
	}

	first := pr.Results[0]
	switch first.Type {
	case ResultError:
		if first.Error == nil || first.Error.Message == "" {
			return nil, &RemoteError{Message: "unknown error"}
		}
		return nil, &RemoteError{Message: first.Error.Message, Code: first.Error.Code}
	case ResultOK:
		if first.Response == nil || first.Response.Result == nil {
			return &Result{}, nil
		}
		return first.Response.Result, nil
	default:
		return nil, &ProtocolError{Reason: fmt.Sprintf("unexpected result type %q", first.Type)}
	}
}

// errorMessage pulls a human-readable message out of an error body, which may
// be JSON in one of several shapes or plain text.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "message", "error"} {
			if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
				return r.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
