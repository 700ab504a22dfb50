// Package sqlite stores catalog extensions in an SQLite database that is
// read once at startup.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"texsense/internal/catalog"

	_ "github.com/mattn/go-sqlite3"
)

// Kind is the vocabulary an entry belongs to.
type Kind string

const (
	KindEnvironment Kind = "environment"
	KindCommand     Kind = "command"
	KindMath        Kind = "math"
	KindPackage     Kind = "package"
)

var (
	// ErrInvalidEntry is returned for entries with an unknown kind or a
	// malformed name.
	ErrInvalidEntry = errors.New("sqlite: invalid catalog entry")

	// ErrInvalidTransaction is returned when a transaction cannot be started
	// or committed.
	ErrInvalidTransaction = errors.New("sqlite: invalid transaction")
)

// Entry is one row of the catalog database.
type Entry struct {
	Kind Kind
	Name string
	catalog.Info
}

func (e Entry) validate() error {
	switch e.Kind {
	case KindEnvironment, KindPackage:
		if e.Name == "" || strings.ContainsAny(e.Name, `\{}, `) {
			return fmt.Errorf("%w: %s %q", ErrInvalidEntry, e.Kind, e.Name)
		}
	case KindCommand, KindMath:
		if len(e.Name) < 2 || e.Name[0] != '\\' {
			return fmt.Errorf("%w: %s %q must start with a backslash", ErrInvalidEntry, e.Kind, e.Name)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, e.Kind)
	}
	return nil
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn in a transaction that is committed when fn succeeds.
func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// Put inserts entries or updates the descriptive fields of existing ones.
// New entries are ordered after the existing entries of their kind.
func (s *Store) Put(ctx context.Context, entries ...Entry) error {
	return s.put(ctx, entries, true)
}

// Seed inserts the vocabulary of c, leaving existing rows untouched.
func (s *Store) Seed(ctx context.Context, c *catalog.Catalog) error {
	var entries []Entry
	for _, name := range c.Environments() {
		info, _ := c.EnvironmentInfo(name)
		entries = append(entries, Entry{Kind: KindEnvironment, Name: name, Info: info})
	}
	for _, name := range c.Commands() {
		info, _ := c.CommandInfo(name)
		entries = append(entries, Entry{Kind: KindCommand, Name: name, Info: info})
	}
	for _, name := range c.MathCommands() {
		info, _ := c.CommandInfo(name)
		entries = append(entries, Entry{Kind: KindMath, Name: name, Info: info})
	}
	for _, name := range c.Packages() {
		entries = append(entries, Entry{Kind: KindPackage, Name: name})
	}
	return s.put(ctx, entries, false)
}

func (s *Store) put(ctx context.Context, entries []Entry, replace bool) error {
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return err
		}
	}

	conflict := `DO NOTHING`
	if replace {
		conflict = `DO UPDATE SET
            description = excluded.description,
            syntax = excluded.syntax,
            example = excluded.example,
            package = excluded.package`
	}
	query := `INSERT INTO entries (kind, name, description, syntax, example, package, position)
        VALUES (?, ?, ?, ?, ?, ?,
            (SELECT COALESCE(MAX(position), -1) + 1 FROM entries WHERE kind = ?))
        ON CONFLICT (kind, name) ` + conflict

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx,
				e.Kind, e.Name, e.Description, e.Syntax, e.Example, e.Package, e.Kind,
			); err != nil {
				return fmt.Errorf("failed to insert %s %q: %w", e.Kind, e.Name, err)
			}
		}
		return nil
	})
}

// Entries returns all entries grouped by kind in insertion order.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT kind, name, description, syntax, example, package
        FROM entries
        ORDER BY kind, position
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Kind, &e.Name, &e.Description, &e.Syntax, &e.Example, &e.Package); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Extension converts the stored entries into a catalog extension. Only
// entries with a description contribute hover records.
func (s *Store) Extension(ctx context.Context) (catalog.Extension, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return catalog.Extension{}, err
	}

	ext := catalog.Extension{
		CommandInfo:     make(map[string]catalog.Info),
		EnvironmentInfo: make(map[string]catalog.Info),
	}
	for _, e := range entries {
		switch e.Kind {
		case KindEnvironment:
			ext.Environments = append(ext.Environments, e.Name)
			if e.Description != "" {
				ext.EnvironmentInfo[e.Name] = e.Info
			}
		case KindCommand, KindMath:
			if e.Kind == KindCommand {
				ext.Commands = append(ext.Commands, e.Name)
			} else {
				ext.MathCommands = append(ext.MathCommands, e.Name)
			}
			if e.Description != "" {
				ext.CommandInfo[e.Name] = e.Info
			}
		case KindPackage:
			ext.Packages = append(ext.Packages, e.Name)
		}
	}
	return ext, nil
}

// Load extends base with the entries of the database at path.
func Load(ctx context.Context, path string, base *catalog.Catalog) (*catalog.Catalog, error) {
	store, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ext, err := store.Extension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return base.Extend(ext), nil
}
