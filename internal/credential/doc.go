// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credential implements the API key gate.
//
// The gate validates a user-supplied Gemini API key, persists it to the
// local store under a fixed key, and loads it back on startup. It performs
// no network calls; whether the key actually works is only discovered on
// the first inference request.
package credential
