// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/elhaouchomar/01blog/lib/httpx"
)

// apiPrefix is the path prefix shared by every endpoint.
const apiPrefix = "/api"

// csrfCookieName is the anti-forgery cookie the backend issues.
// Its value is echoed back in csrfHeaderName on unsafe requests.
const (
	csrfCookieName = "XSRF-TOKEN"
	csrfHeaderName = "X-XSRF-TOKEN"
)

// defaultTimeout bounds a single HTTP round trip. Retrying is the
// caller's concern; this only prevents a hung connection from stalling
// an operation forever.
const defaultTimeout = 15 * time.Second

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the server origin, e.g. "http://localhost:8080".
	// The "/api" prefix is appended internally. Required.
	BaseURL string

	// HTTPClient is used for all requests. When nil, a client with a
	// fresh in-memory cookie jar and a 15 second timeout is created.
	// A supplied client should carry a cookie jar: the session travels
	// in an HTTP-only cookie and the anti-forgery token is read from
	// the jar.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client issues authenticated requests against the 01Blog API.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL must be http or https (got %q)", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("api: creating cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar, Timeout: defaultTimeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:       base,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured server origin.
func (client *Client) BaseURL() string { return client.base.String() }

// do executes one API request. The path is relative to the /api prefix
// (e.g. "/posts"). A non-nil requestBody is JSON-encoded. A non-nil
// result receives the decoded 2xx response body; endpoints with empty
// responses pass nil.
func (client *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	// Paths may carry a query string, so plain concatenation rather
	// than JoinPath (which would escape the "?").
	requestURL := client.base.String() + apiPrefix + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	client.attachCSRF(request)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := httpx.ReadBody(response.Body)
		return parseAPIError(response.StatusCode, body)
	}

	if result == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(response.Body, httpx.MaxBodySize))
		return nil
	}

	body, err := httpx.ReadBody(response.Body)
	if err != nil {
		return fmt.Errorf("api: reading response body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("api: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// attachCSRF echoes the anti-forgery cookie as a request header on
// unsafe methods. The header is attached only when the request targets
// the API's own origin; the token must never leak to another host.
func (client *Client) attachCSRF(request *http.Request) {
	switch request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return
	}
	if !sameOrigin(request.URL, client.base) {
		return
	}
	if client.httpClient.Jar == nil {
		return
	}
	for _, cookie := range client.httpClient.Jar.Cookies(client.base) {
		if cookie.Name == csrfCookieName && cookie.Value != "" {
			request.Header.Set(csrfHeaderName, cookie.Value)
			return
		}
	}
}

// sameOrigin reports whether two URLs share scheme and host (including
// port).
func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

// get issues a GET request and decodes the response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.do(ctx, http.MethodGet, path, nil, result)
}

// post issues a POST request with an optional JSON body.
func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPost, path, requestBody, result)
}

// put issues a PUT request with an optional JSON body.
func (client *Client) put(ctx context.Context, path string, requestBody, result any) error {
	return client.do(ctx, http.MethodPut, path, requestBody, result)
}

// delete issues a DELETE request.
func (client *Client) delete(ctx context.Context, path string) error {
	return client.do(ctx, http.MethodDelete, path, nil, nil)
}

// pageQuery formats the standard page/size query string.
func pageQuery(page, size int) string {
	return fmt.Sprintf("?page=%d&size=%d", page, size)
}
