// Package client sends rendered request bodies to the completion endpoint.
//
// Each request gets one initial attempt plus up to RetryAttempts retries.
// Every attempt is bounded by the configured timeout and retries wait a fixed
// RetryDelay. Transport failures and non-2xx statuses are retried. A 2xx
// response whose body is not JSON is reported immediately.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"llmcheck/internal/config"
	"llmcheck/pkg/logging"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const subsystem = "Client"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// ErrMalformedResponse is returned when a successful response is not JSON.
var ErrMalformedResponse = errors.New("malformed response: body is not valid JSON")

// APIError describes a non-2xx response from the final attempt.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Status)
}

// AttemptHook is called before every HTTP attempt. attempt is zero for the
// first try.
type AttemptHook func(attempt int)

// Option configures an Executor.
type Option func(*Executor)

// WithAttemptHook registers a hook called before every attempt.
func WithAttemptHook(hook AttemptHook) Option {
	return func(e *Executor) {
		e.onAttempt = hook
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client's Timeout is
// still set from the configuration.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) {
		e.client.HTTPClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Executor) {
		e.userAgent = ua
	}
}

// Executor performs authenticated POSTs with bounded, fixed-delay retries.
type Executor struct {
	url        string
	token      string
	userAgent  string
	retryDelay time.Duration
	client     *retryablehttp.Client
	onAttempt  AttemptHook
}

// New creates an Executor for the endpoint and retry policy in cfg.
func New(cfg config.Config, opts ...Option) *Executor {
	e := &Executor{
		url:        cfg.APIURL,
		token:      cfg.BearerToken,
		userAgent:  "llmcheck",
		retryDelay: cfg.RetryDelay,
		client:     retryablehttp.NewClient(),
	}
	for _, opt := range opts {
		opt(e)
	}

	retries := cfg.RetryAttempts
	if retries < 0 {
		retries = 0
	}

	e.client.Logger = nil
	e.client.RetryMax = retries
	e.client.RetryWaitMin = cfg.RetryDelay
	e.client.RetryWaitMax = cfg.RetryDelay
	e.client.HTTPClient.Timeout = cfg.Timeout
	e.client.CheckRetry = checkRetry
	e.client.Backoff = e.backoff
	e.client.ErrorHandler = giveUp
	e.client.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		if e.onAttempt != nil {
			e.onAttempt(attempt)
		}
	}
	return e
}

// Send POSTs body and returns the parsed response document.
func (e *Executor) Send(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.url, []byte(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if !json.Valid(data) {
		return nil, ErrMalformedResponse
	}
	return json.RawMessage(data), nil
}

func (e *Executor) backoff(_, _ time.Duration, attempt int, resp *http.Response) time.Duration {
	reason := "request failed"
	if resp != nil {
		reason = resp.Status
	}
	logging.Debug(subsystem, "Attempt %d failed (%s), retrying in %s", attempt+1, reason, e.retryDelay)
	return e.retryDelay
}

// checkRetry retries every transport error and every non-2xx status until the
// caller's context is done.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return true, nil
	}
	return false, nil
}

// giveUp turns the outcome of the last attempt into the error Send reports.
func giveUp(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		}
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return nil, err
	}
	return nil, fmt.Errorf("request failed after %d attempt(s): %w", attempts, err)
}
