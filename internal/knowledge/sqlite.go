// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package knowledge

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"freight-scan/internal/document"
)

const schema = `
CREATE TABLE IF NOT EXISTS associations (
	role         TEXT NOT NULL,
	name_key     TEXT NOT NULL,
	identifier   TEXT NOT NULL,
	company_name TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (role, name_key)
);
CREATE INDEX IF NOT EXISTS idx_associations_identifier ON associations (identifier);
`

// SQLiteBase is a Base backed by a local SQLite file. It is safe to open the
// same file across batch runs; the pipeline itself only issues reads.
type SQLiteBase struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite-backed knowledge base.
func OpenSQLite(path string) (*SQLiteBase, error) {
	if path == "" {
		return nil, errors.New("knowledge base path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing knowledge base schema: %w", err)
	}
	return &SQLiteBase{db: db}, nil
}

// Close releases the underlying database handle.
func (b *SQLiteBase) Close() error {
	return b.db.Close()
}

// IdentifierByName implements Base.
func (b *SQLiteBase) IdentifierByName(nameKey string, role document.Role) (string, bool) {
	if nameKey == "" {
		return "", false
	}
	var id string
	err := b.db.QueryRow(
		`SELECT identifier FROM associations WHERE role = ? AND name_key = ?`,
		string(role), nameKey,
	).Scan(&id)
	if err != nil {
		return "", false
	}
	return id, id != ""
}

// NameByIdentifier implements Base. When the same identifier was learned
// under several roles the most recently written name wins; names do not vary
// by role in practice.
func (b *SQLiteBase) NameByIdentifier(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	var name string
	err := b.db.QueryRow(
		`SELECT company_name FROM associations WHERE identifier = ? AND company_name <> '' LIMIT 1`,
		id,
	).Scan(&name)
	if err != nil {
		return "", false
	}
	return name, name != ""
}

// Learn upserts one association. Used by the external teaching flow, never
// by the pipeline during a run.
func (b *SQLiteBase) Learn(role document.Role, nameKey, id, name string) error {
	if nameKey == "" || id == "" {
		return errors.New("both name key and identifier are required")
	}
	_, err := b.db.Exec(`
		INSERT INTO associations (role, name_key, identifier, company_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (role, name_key) DO UPDATE
		SET identifier = excluded.identifier,
		    company_name = CASE WHEN excluded.company_name <> '' THEN excluded.company_name ELSE company_name END`,
		string(role), nameKey, id, name)
	if err != nil {
		return fmt.Errorf("learning association: %w", err)
	}
	return nil
}
