package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robinvdvleuten/warehouse/telemetry"
)

// SQLite is a Gateway keeping every collection in one SQLite database.
//
// Each collection is a table of (position, fields) where fields holds the
// row as a JSON array of strings. The header of the last save is kept in
// the headers table.
type SQLite struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLite opens (or creates) the database at path and migrates its schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, persistenceError("open", "", fmt.Errorf("failed to open database: %w", err))
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, persistenceError("open", "", fmt.Errorf("failed to migrate database: %w", err))
	}
	return s, nil
}

// migrate creates the database schema.
func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS headers (
		collection TEXT PRIMARY KEY,
		fields TEXT NOT NULL
	);
	`
	for _, c := range Collections {
		schema += fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		position INTEGER PRIMARY KEY,
		fields TEXT NOT NULL
	);
	`, c)
	}
	_, err := s.db.Exec(schema)
	return err
}

// Paths returns the database file and its journals. In WAL mode commits
// land in the -wal file and only reach the database on checkpoint.
func (s *SQLite) Paths() []string {
	return []string{s.path, s.path + "-wal", s.path + "-journal"}
}

func (s *SQLite) Load(ctx context.Context, c Collection) ([]Row, error) {
	if !c.Valid() {
		return nil, unknownCollection("load", c)
	}
	timer := telemetry.StartTimer(ctx, "store.load "+string(c))
	defer timer.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	// c is one of the fixed collection names, never user input.
	query := fmt.Sprintf(`SELECT fields FROM %s ORDER BY position`, c)
	rs, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, persistenceError("load", c, err)
	}
	defer rs.Close()

	var rows []Row
	for rs.Next() {
		var fieldsJSON string
		if err := rs.Scan(&fieldsJSON); err != nil {
			return nil, persistenceError("load", c, err)
		}
		var row Row
		if err := json.Unmarshal([]byte(fieldsJSON), &row); err != nil {
			return nil, persistenceError("load", c, fmt.Errorf("row %d: %w", len(rows)+1, err))
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, persistenceError("load", c, err)
	}
	return rows, nil
}

func (s *SQLite) Save(ctx context.Context, c Collection, header Row, rows []Row) error {
	if !c.Valid() {
		return unknownCollection("save", c)
	}
	timer := telemetry.StartTimer(ctx, "store.save "+string(c))
	defer timer.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError("save", c, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := s.replace(ctx, tx, c, header, rows); err != nil {
		return persistenceError("save", c, err)
	}

	if err := tx.Commit(); err != nil {
		return persistenceError("save", c, fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

func (s *SQLite) replace(ctx context.Context, tx *sql.Tx, c Collection, header Row, rows []Row) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO headers (collection, fields) VALUES (?, ?)
		 ON CONFLICT(collection) DO UPDATE SET fields = excluded.fields`,
		string(c), string(headerJSON),
	); err != nil {
		return fmt.Errorf("failed to store header: %w", err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, c)); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (position, fields) VALUES (?, ?)`, c))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		fieldsJSON, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i+1, string(fieldsJSON)); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	return nil
}

// Header returns the header stored by the last save of c, or nil.
func (s *SQLite) Header(ctx context.Context, c Collection) (Row, error) {
	if !c.Valid() {
		return nil, unknownCollection("load", c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var fieldsJSON string
	err := s.db.QueryRowContext(ctx, `SELECT fields FROM headers WHERE collection = ?`, string(c)).Scan(&fieldsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("load", c, err)
	}
	var header Row
	if err := json.Unmarshal([]byte(fieldsJSON), &header); err != nil {
		return nil, persistenceError("load", c, err)
	}
	return header, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
