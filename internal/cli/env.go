// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/medichat-tui/internal/config"
	"github.com/jeranaias/medichat-tui/internal/conversation"
	"github.com/jeranaias/medichat-tui/internal/credential"
	"github.com/jeranaias/medichat-tui/internal/gemini"
	"github.com/jeranaias/medichat-tui/internal/speech"
	"github.com/jeranaias/medichat-tui/internal/storage"
)

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Environment holds what every command needs: the effective config, the
// local store and the credential gate over it.
type Environment struct {
	Config *config.Config
	Store  *storage.LocalStore
	Gate   *credential.Gate
}

// LoadEnvironment loads .env, the config file and opens the local store.
// Flags in args override the config.
func LoadEnvironment(args Args) (*Environment, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := applyArgs(cfg, args); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return nil, err
	}
	return &Environment{
		Config: cfg,
		Store:  store,
		Gate:   credential.NewGate(store),
	}, nil
}

func applyArgs(cfg *config.Config, args Args) error {
	if args.Model == "" && args.Transport == "" {
		return nil
	}
	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}
	if args.Transport != "" {
		cfg.Gemini.Transport = args.Transport
	}
	cfg.SetDefaults()
	return cfg.Validate()
}

// Close closes the local store.
func (e *Environment) Close() error {
	if e == nil || e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

// Credential returns the stored API key, or credential.ErrNotStored.
func (e *Environment) Credential(ctx context.Context) (string, error) {
	return e.Gate.Load(ctx)
}

// GeminiOptions builds client options from the config.
func (e *Environment) GeminiOptions() (gemini.Options, error) {
	timeout, err := e.Config.Gemini.Timeout()
	if err != nil {
		return gemini.Options{}, fmt.Errorf("gemini.request_timeout: %w", err)
	}
	return gemini.Options{
		BaseURL:   e.Config.Gemini.BaseURL,
		Model:     e.Config.Gemini.Model,
		Transport: e.Config.Gemini.Transport,
		Timeout:   timeout,
	}, nil
}

// Recognizer returns the configured speech recognizer.
func (e *Environment) Recognizer() speech.Recognizer {
	return speech.FromCommand(e.Config.Speech.Command)
}

// =============================================================================
// SESSION
// =============================================================================

// Session is a controller plus the client it drives.
type Session struct {
	Controller *conversation.Controller
	Generator  gemini.Generator
}

// NewSession builds a conversation for key. The key is fixed for the
// session's lifetime.
func (e *Environment) NewSession(key string, notifier conversation.Notifier) (*Session, error) {
	opts, err := e.GeminiOptions()
	if err != nil {
		return nil, err
	}
	gen, err := gemini.New(opts, key)
	if err != nil {
		return nil, err
	}
	log.Printf("[cli] session ready: model=%s transport=%s key=%s",
		opts.Model, opts.Transport, credential.Fingerprint(key))

	ctrl := conversation.New(conversation.Options{
		Session:    conversation.Session{Credential: key},
		Generator:  gen,
		Recognizer: e.Recognizer(),
		Notifier:   notifier,
		Locale:     e.Config.Speech.Locale,
	})
	return &Session{Controller: ctrl, Generator: gen}, nil
}

// Close cancels outstanding work and releases the client.
func (s *Session) Close() error {
	s.Controller.Close()
	return s.Generator.Close()
}

// =============================================================================
// LOGGING
// =============================================================================

// SetupLogging points the standard logger somewhere safe. In the TUI logs
// go to logging.file or nowhere, so the alternate screen stays clean.
// Line-mode commands also log to stderr when verbose. The returned func
// closes the log file.
func SetupLogging(cfg *config.Config, tui, verbose bool) (func(), error) {
	path := cfg.LogPath()
	noop := func() {}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		if tui {
			f, err := tea.LogToFile(path, "medichat")
			if err != nil {
				return noop, err
			}
			return func() { f.Close() }, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return noop, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		return func() { f.Close() }, nil
	}

	if !tui && (verbose || cfg.Logging.Verbose) {
		log.SetOutput(os.Stderr)
		return noop, nil
	}
	log.SetOutput(io.Discard)
	return noop, nil
}

// requireCredential loads the key or explains how to add one.
func requireCredential(ctx context.Context, env *Environment) (string, error) {
	key, err := env.Credential(ctx)
	if errors.Is(err, credential.ErrNotStored) {
		return "", fmt.Errorf("%w: run 'medichat setup' first", err)
	}
	return key, err
}
