// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credential

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/medichat-tui/internal/storage"
)

// StorageKey is the local store key the credential is persisted under.
const StorageKey = "gemini_api_key"

// MinLength is the minimum accepted credential length in characters.
const MinLength = 10

var (
	// ErrEmptyCredential is returned when the candidate is empty or whitespace.
	ErrEmptyCredential = errors.New("credential is empty")

	// ErrCredentialTooShort is returned when the trimmed candidate is shorter than MinLength.
	ErrCredentialTooShort = errors.New("credential is too short")

	// ErrNotStored is returned by Load when no credential has been saved.
	ErrNotStored = errors.New("no credential stored")
)

// Store is the persistence the gate needs. storage.LocalStore satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Deleter is implemented by stores that can remove a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Gate validates and persists the API credential.
type Gate struct {
	store Store
}

// NewGate creates a gate backed by store.
func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Validate checks a candidate without persisting it and returns the
// trimmed value.
func Validate(candidate string) (string, error) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return "", ErrEmptyCredential
	}
	if utf8.RuneCountInString(trimmed) < MinLength {
		return "", ErrCredentialTooShort
	}
	return trimmed, nil
}

// Submit validates candidate and, if accepted, persists the trimmed value.
// Rejected candidates are never written.
func (g *Gate) Submit(ctx context.Context, candidate string) (string, error) {
	key, err := Validate(candidate)
	if err != nil {
		return "", err
	}
	if err := g.store.Set(ctx, StorageKey, key); err != nil {
		return "", fmt.Errorf("failed to save credential: %w", err)
	}
	return key, nil
}

// Load reads the stored credential. It returns ErrNotStored when none is
// present or the stored value is blank.
func (g *Gate) Load(ctx context.Context) (string, error) {
	value, err := g.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotStored
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrNotStored
	}
	return value, nil
}

// Clear removes the stored credential. The gate itself never calls this;
// it backs the "key clear" command.
func (g *Gate) Clear(ctx context.Context) error {
	d, ok := g.store.(Deleter)
	if !ok {
		return g.store.Set(ctx, StorageKey, "")
	}
	return d.Delete(ctx, StorageKey)
}

// Fingerprint returns a short, non-reversible identifier for a key that
// is safe to log or display.
func Fingerprint(key string) string {
	if key == "" {
		return "<none>"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// Mask returns the key with all but the last four characters hidden.
func Mask(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
