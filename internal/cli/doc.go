// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// medichat.
//
// Commands:
//
//	medichat                   Start the TUI (default)
//	medichat chat              Line-mode chat with history and voice input
//	medichat ask "question"    Ask a single question and print the answer
//	medichat setup             Store the Gemini API key
//	medichat key show|clear    Show the stored key's fingerprint or remove it
//	medichat config show|path|get|init
//	medichat version
//	medichat help
//
// Handlers return errors; main prints them and exits with GetExitCode.
package cli
