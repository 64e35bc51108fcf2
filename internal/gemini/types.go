// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// GENERATION PARAMETERS
// =============================================================================

// Fixed generation parameters sent with every request.
const (
	Temperature     = 0.7
	TopK            = 40
	TopP            = 0.95
	MaxOutputTokens = 1024
)

// Safety override sent with every request.
const (
	SafetyCategoryMedical = "HARM_CATEGORY_MEDICAL"
	SafetyBlockNone       = "BLOCK_NONE"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Part is a single piece of content. Only text parts are used.
type Part struct {
	Text string `json:"text"`
}

// Content is a list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// SafetySetting overrides the blocking threshold for a harm category.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GenerateRequest is the body of a generateContent call.
type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
	SafetySettings   []SafetySetting  `json:"safetySettings"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// GenerateResponse is the body of a successful generateContent call.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the text of the first part of the first candidate,
// or empty string if there is none.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[0].Text
}

// NewGenerateRequest builds the single-turn request for prompt.
func NewGenerateRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: GenerationConfig{
			Temperature:     Temperature,
			TopK:            TopK,
			TopP:            TopP,
			MaxOutputTokens: MaxOutputTokens,
		},
		SafetySettings: []SafetySetting{
			{Category: SafetyCategoryMedical, Threshold: SafetyBlockNone},
		},
	}
}
