package sqlite

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createTables(tx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}

func createTables(tx *sql.Tx) error {
	queries := []string{
		// One row per vocabulary entry.
		// - kind: environment, command, math or package
		// - name: block name, package name, or command text with backslash
		// - the remaining columns feed hover and may be empty
		`CREATE TABLE IF NOT EXISTS entries (
            kind TEXT NOT NULL CHECK (kind IN ('environment', 'command', 'math', 'package')),
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            syntax TEXT NOT NULL DEFAULT '',
            example TEXT NOT NULL DEFAULT '',
            package TEXT NOT NULL DEFAULT '',
            position INTEGER NOT NULL DEFAULT 0,
            PRIMARY KEY (kind, name)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_entries_position
            ON entries(kind, position)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}
	return nil
}
