// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides a client for the Gemini generateContent API.
//
// Each call is a single-turn request: a fixed medical-safety instruction
// wrapped around the user's question, sent with fixed generation
// parameters and a safety override for medical content. There is no
// conversation history, streaming or retry.
//
// # Transports
//
//   - Client: hand-built REST request (default, "rest")
//   - SDKClient: github.com/google/generative-ai-go ("sdk")
//
// Both satisfy Generator, so callers never know which one is in use.
//
// # Usage
//
//	gen, err := gemini.New(gemini.Options{Model: "gemini-1.5-flash-latest"}, apiKey)
//	if err != nil {
//	    return err
//	}
//	defer gen.Close()
//
//	text, err := gen.GenerateContent(ctx, gemini.BuildPrompt("What are common cold symptoms?"))
package gemini
