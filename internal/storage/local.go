// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key/value store for medichat.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("key not found")

	// ErrClosed is returned when the store is used after Close.
	ErrClosed = errors.New("store is closed")

	// ErrEmptyKey is returned for operations on an empty key.
	ErrEmptyKey = errors.New("empty key")
)

// DefaultFileName is the database file name inside the data directory.
const DefaultFileName = "local.db"

// DefaultPath returns the default database path (~/.medichat/local.db).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".medichat", DefaultFileName)
	}
	return filepath.Join(home, ".medichat", DefaultFileName)
}

// =============================================================================
// LOCAL STORE
// =============================================================================

// LocalStore is a persistent string key/value store backed by SQLite.
// It is safe for concurrent use.
type LocalStore struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*LocalStore, error) {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// The file may hold a credential
	_ = os.Chmod(path, 0600)

	return &LocalStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.path
}

// Get returns the value stored under key, or ErrNotFound.
func (s *LocalStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}

	var value string
	err := s.db.QueryRowContext(ctx, selectValueSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if _, err := s.db.ExecContext(ctx, upsertValueSQL, key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	if _, err := s.db.ExecContext(ctx, deleteValueSQL, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys in sorted order.
func (s *LocalStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, listKeysSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the underlying database. It is safe to call more than once.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
