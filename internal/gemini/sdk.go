// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jeranaias/medichat-tui/internal/credential"
)

// SDKClient sends requests through the official Go SDK. The key goes
// through the library's API-key option rather than the key query
// parameter. BaseURL is not used; the SDK picks its own endpoint.
type SDKClient struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	timeout     time.Duration
	fingerprint string
}

// NewSDKClient creates a client using github.com/google/generative-ai-go.
func NewSDKClient(ctx context.Context, apiKey string, opts Options) (*SDKClient, error) {
	opts = opts.withDefaults()
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	configureModel(model)

	return &SDKClient{
		client:      client,
		model:       model,
		modelName:   opts.Model,
		timeout:     opts.Timeout,
		fingerprint: credential.Fingerprint(apiKey),
	}, nil
}

// configureModel applies the fixed generation parameters and safety override.
func configureModel(model *genai.GenerativeModel) {
	model.SetTemperature(Temperature)
	model.SetTopK(TopK)
	model.SetTopP(TopP)
	model.SetMaxOutputTokens(MaxOutputTokens)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryMedical, Threshold: genai.HarmBlockNone},
	}
}

// Model returns the configured model name.
func (c *SDKClient) Model() string {
	return c.modelName
}

// GenerateContent sends prompt and returns the first candidate's first text part.
func (c *SDKClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Printf("[gemini] sdk request: model=%s (key %s)", c.modelName, c.fingerprint)
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("[gemini] sdk error after %v", time.Since(start).Round(time.Millisecond))
		return "", fmt.Errorf("generate content: %w", err)
	}
	log.Printf("[gemini] sdk response (%v)", time.Since(start).Round(time.Millisecond))

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: no candidate text", ErrMalformedResponse)
	}
	return text, nil
}

// firstText mirrors GenerateResponse.Text for SDK responses.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	if t, ok := content.Parts[0].(genai.Text); ok {
		return string(t)
	}
	return ""
}

// Close releases the SDK client.
func (c *SDKClient) Close() error {
	return c.client.Close()
}
