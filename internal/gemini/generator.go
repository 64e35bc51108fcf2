// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Defaults for the Gemini endpoint.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash-latest"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

// Transport names accepted by Options.Transport.
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// Generator produces a completion for a fully built prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}

// Options configures a Generator.
type Options struct {
	BaseURL   string
	Model     string
	Transport string

	// Timeout bounds each request. Zero means the caller's context
	// is the only limit.
	Timeout time.Duration

	// HTTPClient overrides the REST transport's client.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Transport == "" {
		o.Transport = TransportREST
	}
	return o
}

// New builds the Generator selected by opts.Transport.
func New(opts Options, apiKey string) (Generator, error) {
	opts = opts.withDefaults()
	switch strings.ToLower(opts.Transport) {
	case TransportREST:
		return NewClient(apiKey, opts), nil
	case TransportSDK:
		return NewSDKClient(context.Background(), apiKey, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, opts.Transport)
	}
}
