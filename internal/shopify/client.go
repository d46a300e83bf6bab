package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	storefrontTokenHeader = "X-Shopify-Storefront-Access-Token"
	adminTokenHeader      = "X-Shopify-Access-Token"

	maxRetries = 3
)

// Client is a minimal GraphQL client for the Shopify Storefront and Admin
// APIs. Both APIs share the same request/response envelope; they differ only
// in endpoint and auth header.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	tokenHeader string
	token       string
}

// NewStorefrontClient creates a client for the public Storefront API.
func NewStorefrontClient(shopDomain, token, apiVersion string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", shopDomain, apiVersion),
		tokenHeader: storefrontTokenHeader,
		token:       token,
	}
}

// NewAdminClient creates a client for the authenticated Admin API.
func NewAdminClient(shopDomain, token, apiVersion string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		endpoint:    fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, apiVersion),
		tokenHeader: adminTokenHeader,
		token:       token,
	}
}

// WithEndpoint overrides the computed endpoint. Tests point this at an
// httptest server.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLError is a top-level error from the GraphQL envelope (malformed
// query, throttling, auth) as opposed to a mutation userError.
type GraphQLError struct {
	Message string `json:"message"`
}

// Query executes a read operation and decodes the response data into out.
// Reads are idempotent, so transient failures are retried with exponential
// backoff.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			slog.Debug("retrying shopify query", "attempt", attempt+1, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.do(ctx, query, variables, out)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("shopify query failed after retries: %w", lastErr)
}

// Mutate executes a write operation. Mutations are never retried; a replay
// could create a duplicate draft order.
func (c *Client) Mutate(ctx context.Context, mutation string, variables map[string]any, out any) error {
	return c.do(ctx, mutation, variables, out)
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(respBody, 200))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &transportError{err: err}
		}
		return err
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// transportError marks network-level failures and 429/5xx responses as
// retryable for reads.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var te *transportError
	return errors.As(err, &te)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
