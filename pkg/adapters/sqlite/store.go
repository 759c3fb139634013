package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

// Store implements ports.MacroStore. Each macro is one row holding its JSON
// record; the combo column is kept alongside for ad-hoc queries.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// One writer at a time avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and migrates it.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS macros (
		name       TEXT PRIMARY KEY,
		combo      TEXT NOT NULL,
		record     TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Save inserts or replaces the macro.
func (s *Store) Save(ctx context.Context, macro domain.Macro) error {
	if macro.Name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}
	data, err := schema.Marshal(macro)
	if err != nil {
		return fmt.Errorf("failed to marshal macro: %w", err)
	}

	query := `INSERT INTO macros (name, combo, record, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET combo = excluded.combo, record = excluded.record, updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, macro.Name, string(macro.Combo), string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save macro: %w", err)
	}
	return nil
}

// Load retrieves a macro by name.
func (s *Store) Load(ctx context.Context, name string) (domain.Macro, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM macros WHERE name = ?`, name).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Macro{}, domain.ErrMacroNotFound
		}
		return domain.Macro{}, fmt.Errorf("failed to load macro: %w", err)
	}
	return schema.Unmarshal([]byte(record))
}

// Delete removes the macro. Deleting an absent macro is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM macros WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete macro: %w", err)
	}
	return nil
}

// List returns every macro ordered by name, skipping rows that fail to decode.
func (s *Store) List(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog

	rows, err := s.db.QueryContext(ctx, `SELECT name, record FROM macros ORDER BY name`)
	if err != nil {
		return catalog, fmt.Errorf("failed to list macros: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, record string
		if err := rows.Scan(&name, &record); err != nil {
			return catalog, err
		}
		m, err := schema.Unmarshal([]byte(record))
		if err != nil {
			catalog.Skipped = append(catalog.Skipped, domain.RecordError{Record: name, Err: err})
			continue
		}
		catalog.Macros = append(catalog.Macros, m)
	}
	return catalog, rows.Err()
}

// DB exposes the underlying database.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
