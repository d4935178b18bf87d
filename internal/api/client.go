// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the REST client for the chatbot service.
//
// All calls take a context.Context and return explicit errors. The bearer
// token is read from a TokenSource at call time, so a login or logout in one
// part of the program is visible to every request issued afterwards without
// any shared mutable header state.
//
// SECURITY: Secure logging - requests are logged as method and path only,
// responses as status and duration. Bodies and tokens are never logged.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the chatbot service API.
const (
	// DefaultBaseURL is the base URL of a local development server.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all chatbot service requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// TokenSource supplies the current access token for outgoing requests.
// An empty string means the request is sent unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource returning a fixed token. Useful in tests.
type StaticToken string

// AccessToken implements TokenSource.
func (t StaticToken) AccessToken() string { return string(t) }

// Client is a client for the chatbot service REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client for the service at baseURL. The TokenSource may
// be nil, in which case all requests are sent unauthenticated.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: sharedHTTPClient,
		userAgent:  "chatterm/0.1.0",
	}
}

// WithTimeout sets the request timeout. It replaces the shared pooled client
// with a dedicated one so the shared timeout is left untouched.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithHTTPClient sets a custom HTTP client. Useful in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// setHeaders sets the required headers for chatbot service requests. The
// bearer token is read from the TokenSource at call time.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// logRequest logs an API request without exposing sensitive data.
// SECURITY: Does not log headers (contain auth) or body (contains user text).
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response with duration.
// SECURITY: Only logs status code and duration, no response body.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// do performs a single request and decodes a 2xx JSON response into out.
// Non-2xx responses are converted through handleErrorResponse. out may be
// nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	logRequest(req)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request so
	// a retained *http.Request cannot leak the token.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	logResponse(resp, time.Since(startTime))

	respBody, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return handleErrorResponse(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	return c.do(ctx, http.MethodPost, path, reqBody, out)
}

// errorResponse is the service's error payload. "errors" carries field-scoped
// validation messages (registration), "error" and "message" carry a single
// string depending on the endpoint.
type errorResponse struct {
	Errors  map[string][]string `json:"errors"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
}

// handleErrorResponse converts a non-2xx response into an error. Field-scoped
// validation payloads become a ValidationError; everything else becomes an
// APIError, which unwraps to the matching sentinel for 401/403/404.
func handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorResponse
	_ = json.Unmarshal(body, &errResp)

	if len(errResp.Errors) > 0 {
		return &ValidationError{Fields: errResp.Errors}
	}

	message := errResp.Message
	if message == "" {
		message = errResp.Error
	}

	return &APIError{Status: statusCode, Message: message}
}
