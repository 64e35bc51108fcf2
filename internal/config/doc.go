// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for medichat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GeminiConfig: Inference endpoint, model and transport
//   - SpeechConfig: External speech-to-text program
//   - ValidateErrors: Collected validation failures
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MEDICHAT_*), including those from ./.env
//   - ~/.medichat/config.toml
//   - ~/.medichat/config.json
//   - Built-in defaults
//
// The API key is not part of the configuration. It is kept in the local
// store managed by the credential package.
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout, _ := cfg.Gemini.Timeout()
package config
