package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/retronet/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	writeAttempts  = 3
	writeBaseDelay = 50 * time.Millisecond
)

// SQLiteStore implements Store on a SQLite table. Each store instance is
// bound to a single partition; several partitions may share one file.
type SQLiteStore struct {
	db        *sql.DB
	partition string
}

// NewSQLite opens (creating if needed) the database at dbPath and returns a
// store scoped to partition.
func NewSQLite(dbPath, partition string) (*SQLiteStore, error) {
	if partition == "" {
		return nil, fmt.Errorf("partition cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db, partition: partition}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS kv (
		partition TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (partition, key)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Partition returns the partition name this store is bound to.
func (s *SQLiteStore) Partition() string {
	return s.partition
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns the value for key in this partition.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE partition = ? AND key = ?`, s.partition, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set creates or overwrites key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO kv (partition, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(partition, key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

	err := shared.RetryOnConflict(ctx, "kv set", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, query, s.partition, key, value, time.Now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key from this partition.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	err := shared.RetryOnConflict(ctx, "kv remove", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE partition = ? AND key = ?`, s.partition, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys lists every key in this partition in sorted order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT key FROM kv WHERE partition = ? ORDER BY key`, s.partition)
}

// Clear removes every key in this partition.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	var removed int64
	err := shared.RetryOnConflict(ctx, "kv clear", writeAttempts, writeBaseDelay, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE partition = ?`, s.partition)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("clear partition: %w", err)
	}
	slog.Debug("Cleared partition", "partition", s.partition, "keys_removed", removed)
	return nil
}

// Partitions lists every partition that holds at least one key.
func (s *SQLiteStore) Partitions(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `SELECT DISTINCT partition FROM kv ORDER BY partition`)
}

func (s *SQLiteStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
