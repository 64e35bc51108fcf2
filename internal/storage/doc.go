// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key/value store for medichat.
//
// The store plays the role a browser's local storage would: a flat
// string-to-string map that survives restarts. It is backed by a single
// SQLite file using the pure Go modernc.org/sqlite driver.
//
// # Key Types
//
//   - LocalStore: SQLite-backed key/value store
//
// # Usage
//
//	store, err := storage.Open(storage.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Set(ctx, "gemini_api_key", key)
//	value, err := store.Get(ctx, "gemini_api_key")
//
// # Storage Location
//
// The database lives at ~/.medichat/local.db unless overridden by
// storage.path in the config file or MEDICHAT_DATA_DIR.
package storage
