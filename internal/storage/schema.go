// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema is the database schema for the local store.
const Schema = `
CREATE TABLE IF NOT EXISTS local_storage (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const (
	selectValueSQL = `SELECT value FROM local_storage WHERE key = ?`
	upsertValueSQL = `INSERT INTO local_storage (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteValueSQL = `DELETE FROM local_storage WHERE key = ?`
	listKeysSQL    = `SELECT key FROM local_storage ORDER BY key`
)
