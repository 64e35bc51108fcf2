// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/medichat-tui/internal/credential"
)

// sharedHTTPClient pools connections across requests. It has no timeout;
// deadlines come from the request context.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// Client calls the generateContent REST endpoint directly.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a REST client for apiKey.
func NewClient(apiKey string, opts Options) *Client {
	opts = opts.withDefaults()
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = sharedHTTPClient
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    opts.BaseURL,
		model:      opts.Model,
		timeout:    opts.Timeout,
		httpClient: httpClient,
	}
}

// Model returns the model the client sends requests to.
func (c *Client) Model() string {
	return c.model
}

// KeyFingerprint returns a loggable fingerprint of the API key.
func (c *Client) KeyFingerprint() string {
	return credential.Fingerprint(c.apiKey)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// endpoint returns the generateContent URL including the key parameter.
func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return fmt.Sprintf("%s/models/%s:generateContent?%s", c.baseURL, url.PathEscape(c.model), q.Encode())
}

// GenerateContent sends prompt and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.doRequest(ctx, NewGenerateRequest(prompt))
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no candidate text", ErrMalformedResponse)
	}
	return text, nil
}

// doRequest performs a single generateContent call.
func (c *Client) doRequest(ctx context.Context, reqBody GenerateRequest) (*GenerateResponse, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "medichat/"+userAgentVersion)

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included
		return nil, fmt.Errorf("request failed: %w", redactURLError(err))
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

// userAgentVersion is overridden by the cli package at startup.
var userAgentVersion = "dev"

// SetUserAgentVersion sets the version reported in the User-Agent header.
func SetUserAgentVersion(v string) {
	if v != "" {
		userAgentVersion = v
	}
}

// logRequest logs method and path only. The query string carries the key.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("[gemini] request: %s %s (key %s)", req.Method, req.URL.Path, c.KeyFingerprint())
}

// logResponse logs status and duration, never the body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("[gemini] response: %s (%v)", resp.Status, duration.Round(time.Millisecond))
}

// readResponse reads the body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeded %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts a non-2xx response into an *APIError.
func handleErrorResponse(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	apiErr.Message = msg
	return apiErr
}

// redactURLError strips the query string from a *url.Error.
func redactURLError(err error) error {
	if uerr, ok := err.(*url.Error); ok {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
		}
	}
	return err
}
