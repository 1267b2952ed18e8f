package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"codereview-frontend/internal/shared/metrics"
	"codereview-frontend/internal/shared/telemetry"
)

const (
	apiPrefix       = "/api/v1"
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 4096
)

// Config describes how to reach the code review API.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Client credentials are optional; when ClientID is empty requests are sent
	// without an Authorization header.
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Client talks to the code review REST API. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", base, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if strings.TrimSpace(cfg.ClientID) != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
		httpClient = cc.Client(ctx)
		httpClient.Timeout = timeout
	}

	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// NewClientWithHTTP wires a custom http.Client, mainly for tests.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// do sends one request. endpoint is the metrics/log label, path is relative to
// the API prefix. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, endpoint, path string, payload, out any) error {
	var body io.Reader
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, method, 0, time.Since(start))
		telemetry.Error("api.transport_error", map[string]any{
			"endpoint": endpoint,
			"method":   method,
			"path":     path,
			"payload":  string(raw),
			"error":    err,
		})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Endpoint:   endpoint,
			Path:       path,
			Detail:     parseDetail(respBody),
		}
		telemetry.Error("api.error_response", map[string]any{
			"endpoint": endpoint,
			"method":   method,
			"path":     path,
			"status":   resp.StatusCode,
			"payload":  string(raw),
			"body":     string(respBody),
		})
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		telemetry.Error("api.decode_error", map[string]any{
			"endpoint": endpoint,
			"method":   method,
			"path":     path,
			"error":    err,
		})
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
