package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/observability"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 8 << 20

// TokenSource supplies the bearer token for outgoing requests. An empty token
// means the request is sent without Authorization.
type TokenSource interface {
	Token() string
}

// Client talks to the remote admin REST API. It never retries; every failure
// is returned as *Error.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a client for baseURL. Timeouts belong to httpClient.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// WithTokens returns a client sharing the transport but reading tokens from tokens.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	return &Client{baseURL: c.baseURL, http: c.http, tokens: tokens}
}

// Do sends a JSON request and decodes a 2xx body into out. op names the call
// for logs and metrics.
func (c *Client) Do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		observability.RecordAPIRequest(op, method, string(KindTransport), time.Since(start))
		slog.Error("Remote API request failed", "operation", op, "error", err)
		return &Error{Kind: KindTransport, Message: requestFailed, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		observability.RecordAPIRequest(op, method, string(KindTransport), time.Since(start))
		slog.Error("Remote API response read failed", "operation", op, "error", err)
		return &Error{Kind: KindTransport, Status: res.StatusCode, Message: requestFailed, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		observability.RecordAPIRequest(op, method, string(KindApplication), time.Since(start))
		apiErr := &Error{Kind: KindApplication, Status: res.StatusCode, Message: errorMessage(raw)}
		slog.Info("Remote API returned error", "operation", op, "status", res.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	observability.RecordAPIRequest(op, method, "ok", time.Since(start))
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	// An unparsable success body is treated as an empty object.
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("Remote API returned non-JSON body", "operation", op, "error", err)
	}
	return nil
}
