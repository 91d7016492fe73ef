// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

// Package api implements the Zoom REST client: OAuth token management with
// scope validation, the retry/backoff call engine, pagination, and typed
// wrappers for every endpoint the sync jobs use.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/openlms/zoom-sync-service/internal/domain"
	"github.com/openlms/zoom-sync-service/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// BaseURL is the base URL for the Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// AuthURL is the OAuth token endpoint (absolute, not API-base-relative)
	AuthURL = "https://zoom.us/oauth/token"
	// DefaultClientTimeout is the default HTTP client timeout for Zoom API requests
	DefaultClientTimeout = 30 * time.Second
	// DefaultMaxRetries is the rate-limit and connection-reset retry ceiling
	DefaultMaxRetries = 5
	// MaxPageSize is the largest page size the Zoom listing APIs allow
	MaxPageSize = 300

	// defaultTokenTTL is applied when the token response omits expires_in
	defaultTokenTTL = 3599 * time.Second
	// connectionRetryDelay is the fixed delay between connection-reset retries
	connectionRetryDelay = 1 * time.Second
	// defaultRateBackoff is the fallback wait when a 429 carries no usable headers
	defaultRateBackoff = 1 * time.Second
	// qpsBackoff waits out the current minute window for dashboard-path QPS limits
	qpsBackoff = 60 * time.Second
)

// Rate-limit response headers, matched case-insensitively by http.Header.
const (
	headerRetryAfter         = "Retry-After"
	headerRateLimitType      = "X-RateLimit-Type"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
)

// LimitStore persists the daily API-limit resume timestamp so that every
// later call (in this process or the next job run) fails fast until the
// quota window rolls over.
type LimitStore interface {
	GetAPILimitResumeAt(ctx context.Context) (time.Time, error)
	SetAPILimitResumeAt(ctx context.Context, t time.Time) error
}

// Config holds the configuration for the Zoom client.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override auth URL for testing
	AuthURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry ceiling for rate-limit and connection-reset retries
	MaxRetries int
	// Sleep is the suspension used for backoff. Leave nil to sleep for real;
	// tests inject a no-op to stay fast and deterministic.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now is the clock used for backoff decisions. Leave nil for time.Now.
	Now func() time.Time
}

// Client is the Zoom API client.
type Client struct {
	httpClient  *http.Client
	config      Config
	tokenSource oauth2.TokenSource
	limitStore  LimitStore

	mu     sync.Mutex
	scopes map[string]struct{} // granted scopes, known after first token fetch
}

// NewClient creates a new Zoom API client.
func NewClient(config Config, limitStore LimitStore) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = AuthURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.Sleep == nil {
		config.Sleep = func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	// Zoom server-to-server OAuth: client-credentials exchange with basic
	// auth and the account_credentials grant.
	oauthConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{config.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		config:     config,
		limitStore: limitStore,
	}
	c.tokenSource = oauth2.ReuseTokenSource(nil, &validatingTokenSource{
		base:   oauthConfig.TokenSource(context.Background()),
		client: c,
	})

	return c
}

// validatingTokenSource wraps the client-credentials source, applies the
// default TTL when the response omits one, and parses and validates the
// granted scope set. A missing required scope is a configuration error and
// is never retried.
type validatingTokenSource struct {
	base   oauth2.TokenSource
	client *Client
}

func (s *validatingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, domain.NewConfigurationError("unable to obtain zoom access token", err)
	}

	if token.Expiry.IsZero() {
		token.Expiry = s.client.config.Now().Add(defaultTokenTTL)
	}

	scopeString, _ := token.Extra("scope").(string)
	scopes := parseScopes(scopeString)
	if err := validateRequiredScopes(scopes); err != nil {
		return nil, err
	}

	s.client.mu.Lock()
	s.client.scopes = scopes
	s.client.mu.Unlock()

	return token, nil
}

// HasScope reports whether any of the candidate scopes was granted to the
// configured credential, acquiring a token first if scopes are not yet
// known. The jobs use this to choose between alternate API families.
func (c *Client) HasScope(ctx context.Context, candidates ...string) (bool, error) {
	c.mu.Lock()
	scopes := c.scopes
	c.mu.Unlock()

	if scopes == nil {
		if _, err := c.tokenSource.Token(); err != nil {
			return false, err
		}
		c.mu.Lock()
		scopes = c.scopes
		c.mu.Unlock()
	}

	for _, candidate := range candidates {
		if _, ok := scopes[candidate]; ok {
			return true, nil
		}
	}
	return false, nil
}

// zoomErrorBody is the structured payload Zoom attaches to error responses.
type zoomErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (b *zoomErrorBody) message() string {
	parts := make([]string, 0, len(b.Errors)+1)
	if b.Message != "" {
		parts = append(parts, b.Message)
	}
	for _, e := range b.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// call issues one authenticated request against the Zoom API and returns the
// parsed response body. Transient connection resets are retried with a short
// fixed delay; 429 responses run through the backoff state machine. All
// other failures map onto the webservice error taxonomy.
func (c *Client) call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if err := c.checkDailyLimit(ctx); err != nil {
		return nil, err
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, domain.NewInternalError("failed to marshal request body", err)
		}
	}

	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, err
	}

	var resetAttempts, rateAttempts int
	for {
		req, err := c.newRequest(ctx, method, path, jsonBody, token)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isConnectionReset(err) && resetAttempts < c.config.MaxRetries {
				resetAttempts++
				slog.WarnContext(ctx, "zoom API connection reset, retrying",
					"method", method, "path", path, "attempt", resetAttempts, logging.ErrKey, err)
				if err := c.config.Sleep(ctx, connectionRetryDelay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, domain.NewGenericError("zoom API request failed", err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, domain.NewGenericError("failed to read zoom API response", readErr)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			// Any non-429 completion resets the rate-limit retry counter.
			return c.dispatch(ctx, method, path, resp.StatusCode, respBody)
		}

		rateAttempts++
		decision := decideBackoff(rateAttempts, c.config.MaxRetries, resp.Header, path, c.config.Now())
		switch decision.kind {
		case backoffRetryExceeded:
			slog.ErrorContext(ctx, "zoom API retry ceiling exceeded",
				"method", method, "path", path, "max_retries", c.config.MaxRetries,
				logging.PriorityCritical())
			return nil, domain.NewRetryFailedError(
				fmt.Sprintf("zoom API call retried %d times and is still rate limited", c.config.MaxRetries))
		case backoffDailyLimit:
			if c.limitStore != nil {
				if err := c.limitStore.SetAPILimitResumeAt(ctx, decision.resumeAt); err != nil {
					slog.ErrorContext(ctx, "failed to persist daily limit resume time", logging.ErrKey, err)
				}
			}
			slog.ErrorContext(ctx, "zoom API daily limit reached",
				"method", method, "path", path, "resume_at", decision.resumeAt,
				logging.PriorityCritical())
			return nil, domain.NewAPILimitError("zoom API daily call limit reached", decision.resumeAt)
		case backoffWait:
			slog.WarnContext(ctx, "zoom API rate limited, backing off",
				"method", method, "path", path,
				"attempt", rateAttempts, "backoff", decision.wait.String())
			if err := c.config.Sleep(ctx, decision.wait); err != nil {
				return nil, err
			}
		}
	}
}

// checkDailyLimit fails fast when a previously persisted daily-limit resume
// timestamp has not yet elapsed. The stored value self-clears once it lies in
// the past.
func (c *Client) checkDailyLimit(ctx context.Context) error {
	if c.limitStore == nil {
		return nil
	}
	resumeAt, err := c.limitStore.GetAPILimitResumeAt(ctx)
	if err != nil {
		return err
	}
	if !resumeAt.IsZero() && resumeAt.After(c.config.Now()) {
		return domain.NewAPILimitError("zoom API daily call limit still in effect", resumeAt)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, jsonBody []byte, token *oauth2.Token) (*http.Request, error) {
	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, domain.NewInternalError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)
	return req, nil
}

// dispatch maps a completed (non-429) response onto the error taxonomy.
// Error bodies are parsed as structured data too; an unparseable body falls
// back to an HTTP-status-only message.
func (c *Client) dispatch(ctx context.Context, method, path string, statusCode int, body []byte) (json.RawMessage, error) {
	if statusCode < http.StatusBadRequest {
		slog.DebugContext(ctx, "zoom API request completed",
			"method", method, "path", path, "status", statusCode)
		return body, nil
	}

	var errBody zoomErrorBody
	parseable := json.Unmarshal(body, &errBody) == nil && errBody.message() != ""

	slog.ErrorContext(ctx, "zoom API error response",
		"method", method, "path", path, "status", statusCode, "body", string(body))

	switch statusCode {
	case http.StatusBadRequest:
		return nil, domain.NewBadRequestError("zoom API rejected the request", errBody.Code, errBody.message())
	case http.StatusNotFound:
		return nil, domain.NewRemoteNotFoundError("zoom entity not found", errBody.Code, errBody.message())
	default:
		if parseable {
			return nil, domain.NewGenericError(
				fmt.Sprintf("zoom API error (code %d): %s", errBody.Code, errBody.message()))
		}
		return nil, domain.NewGenericError(fmt.Sprintf("zoom API returned HTTP %d", statusCode))
	}
}

type backoffKind int

const (
	backoffWait backoffKind = iota
	backoffRetryExceeded
	backoffDailyLimit
)

type backoffDecision struct {
	kind     backoffKind
	wait     time.Duration
	resumeAt time.Time
}

// decideBackoff is the pure rate-limit decision: given the attempt count,
// the 429 response headers and the request path, pick a wait duration or a
// terminal failure. Extracted from the call loop so it can be tested without
// sleeping.
func decideBackoff(attempt, maxRetries int, header http.Header, path string, now time.Time) backoffDecision {
	if attempt > maxRetries {
		return backoffDecision{kind: backoffRetryExceeded}
	}

	limitType := strings.ToLower(header.Get(headerRateLimitType))
	if (limitType == "qps" || limitType == "per-second" || limitType == "per-minute") && isDashboardPath(path) {
		// Dashboard QPS windows reset on the minute boundary.
		return backoffDecision{kind: backoffWait, wait: qpsBackoff}
	}

	if retryAfter := header.Get(headerRetryAfter); retryAfter != "" {
		resumeAt := parseRetryAfter(retryAfter, now)
		if header.Get(headerRateLimitRemaining) == "0" {
			// Remaining quota of zero alongside Retry-After means the daily
			// quota is exhausted; waiting within this run is pointless.
			return backoffDecision{kind: backoffDailyLimit, resumeAt: resumeAt}
		}
		wait := resumeAt.Sub(now)
		if wait < 0 {
			wait = defaultRateBackoff
		}
		return backoffDecision{kind: backoffWait, wait: wait}
	}

	return backoffDecision{kind: backoffWait, wait: defaultRateBackoff}
}

func isDashboardPath(path string) bool {
	return strings.HasPrefix(path, "/metrics/")
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string, now time.Time) time.Time {
	if seconds, err := strconv.Atoi(value); err == nil {
		return now.Add(time.Duration(seconds) * time.Second)
	}
	if t, err := http.ParseTime(value); err == nil {
		return t
	}
	return now.Add(defaultRateBackoff)
}

func isConnectionReset(err error) bool {
	return err != nil && strings.Contains(err.Error(), "connection reset")
}

// paginatedPage is the envelope shared by all Zoom listing responses.
type paginatedPage struct {
	NextPageToken string `json:"next_page_token"`
	PageNumber    int    `json:"page_number"`
	PageCount     int    `json:"page_count"`
}

// paginatedCall issues call repeatedly with the maximum page size, merging
// the named result array from every page. Continuation prefers the opaque
// next_page_token and falls back to the numeric page_number/page_count pair;
// the loop stops when neither indicates more data.
func (c *Client) paginatedCall(ctx context.Context, path string, query url.Values, resultKey string) ([]json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", strconv.Itoa(MaxPageSize))

	var items []json.RawMessage
	for {
		body, err := c.call(ctx, http.MethodGet, path+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var page paginatedPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, domain.NewGenericError("failed to decode paginated response", err)
		}

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, domain.NewGenericError("failed to decode paginated response", err)
		}
		if raw, ok := envelope[resultKey]; ok {
			var pageItems []json.RawMessage
			if err := json.Unmarshal(raw, &pageItems); err != nil {
				return nil, domain.NewGenericError(fmt.Sprintf("failed to decode %q page", resultKey), err)
			}
			items = append(items, pageItems...)
		}

		switch {
		case page.NextPageToken != "":
			query.Set("next_page_token", page.NextPageToken)
		case page.PageCount > 0 && page.PageNumber < page.PageCount:
			query.Del("next_page_token")
			query.Set("page_number", strconv.Itoa(page.PageNumber+1))
		default:
			return items, nil
		}
	}
}

// decodePaginated unmarshals a merged page item list into typed values.
func decodePaginated[T any](items []json.RawMessage) ([]T, error) {
	results := make([]T, 0, len(items))
	for _, item := range items {
		var value T
		if err := json.Unmarshal(item, &value); err != nil {
			return nil, domain.NewGenericError("failed to decode list item", err)
		}
		results = append(results, value)
	}
	return results, nil
}

// EncodeMeetingUUID percent-encodes an occurrence UUID for use as a path
// segment. UUIDs beginning with "/" or containing "//" must be encoded twice
// because a single encoding is ambiguous with path separators.
func EncodeMeetingUUID(uuid string) string {
	if strings.HasPrefix(uuid, "/") || strings.Contains(uuid, "//") {
		return url.QueryEscape(url.QueryEscape(uuid))
	}
	return uuid
}
