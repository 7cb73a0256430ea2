package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createSlotTable = `CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
)`

// SQLiteSlot stores the value as one row of an embedded database
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// NewSQLiteSlot opens (creating if needed) the database at path
func NewSQLiteSlot(path, key string) (*SQLiteSlot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSlotTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &SQLiteSlot{db: db, key: key}, nil
}

func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history row: %w", err)
	}
	return data, nil
}

func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data)
	if err != nil {
		return fmt.Errorf("failed to write history row: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, s.key); err != nil {
		return fmt.Errorf("failed to delete history row: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("history database unreachable: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Name() string { return "sqlite:" + s.key }

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
