package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteStore persists documents in a single versioned table. Commits run
// in an IMMEDIATE transaction and use conditional updates on the version
// column, so concurrent processes sharing the file are serialized.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens a SQLite document store and applies embedded migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %v", ErrConnection, err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var applied int
		if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}
		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := sqlDB.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, time.Now().UTC().UnixMilli()); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get loads one document
func (s *SQLiteStore) Get(ctx context.Context, key Key) (Document, error) {
	doc := Document{Key: key}
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data, version FROM documents WHERE collection = ? AND id = ?`,
		string(key.Collection), key.ID,
	).Scan(&doc.Data, &doc.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{Key: key}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: get %s: %v", ErrQuery, key, err)
	}
	return doc, nil
}

// Commit validates versions and applies writes in one SQL transaction
func (s *SQLiteStore) Commit(ctx context.Context, reads []Document, writes []Write) (err error) {
	expected, err := expectedVersions(reads, writes)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return classifySQLiteError("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for key, version := range expected {
		var current int64
		scanErr := tx.QueryRowContext(ctx,
			`SELECT version FROM documents WHERE collection = ? AND id = ?`,
			string(key.Collection), key.ID,
		).Scan(&current)
		if scanErr != nil && !errors.Is(scanErr, sql.ErrNoRows) {
			return classifySQLiteError("read version", scanErr)
		}
		if current != version {
			return ErrConflict
		}
	}

	now := time.Now().UTC().UnixMilli()
	for _, w := range writes {
		version := expected[w.Key]
		if version == 0 {
			_, execErr := tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, data, version, updated_at) VALUES (?, ?, ?, 1, ?)`,
				string(w.Key.Collection), w.Key.ID, w.Data, now,
			)
			if execErr != nil {
				return classifySQLiteError("insert", execErr)
			}
			continue
		}
		res, execErr := tx.ExecContext(ctx,
			`UPDATE documents SET data = ?, version = ?, updated_at = ?
			 WHERE collection = ? AND id = ? AND version = ?`,
			w.Data, version+1, now, string(w.Key.Collection), w.Key.ID, version,
		)
		if execErr != nil {
			return classifySQLiteError("update", execErr)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return ErrConflict
		}
	}

	if err = tx.Commit(); err != nil {
		return classifySQLiteError("commit", err)
	}
	return nil
}

// classifySQLiteError maps lock contention and duplicate inserts to
// ErrConflict so the caller retries the whole unit.
func classifySQLiteError(op string, err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch {
		case code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
			code&0xff == sqlite3lib.SQLITE_BUSY,
			code&0xff == sqlite3lib.SQLITE_LOCKED:
			return fmt.Errorf("%w: %s: %v", ErrConflict, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrQuery, op, err)
}

var _ Store = (*SQLiteStore)(nil)
