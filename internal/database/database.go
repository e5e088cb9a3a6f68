// Package database provides the record store abstraction for the Quest API.
//
// Every mutation in the progression core is an optimistic transaction over a
// small set of versioned JSON documents:
//
//  1. read a snapshot (payload + version) of every key involved
//  2. compute the new payloads purely from the snapshots
//  3. commit, conditional on every snapshot version being unchanged
//
// A commit that loses a race returns ErrConflict and Transact retries the
// whole unit with backoff, up to a bounded number of attempts.
//
// # Backends
//
//   - MemoryStore: process-local, used by tests and single-instance dev
//   - SQLiteStore: row-versioned documents table (modernc.org/sqlite)
//   - RedisStore: WATCH/MULTI over per-document hashes (go-redis)
//   - SurrealStore: versioned records checked inside BEGIN/COMMIT TRANSACTION
//
// # Error Handling
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrConflict) {
//	    // retries were exhausted
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a concurrent write invalidated a snapshot.
	ErrConflict = errors.New("transaction conflict")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrWriteOutsideReadSet indicates a transaction tried to write a key it never read.
	ErrWriteOutsideReadSet = errors.New("write outside transaction read set")
)

// Database defines the query interface of a SurrealDB connection
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds SurrealDB connection settings
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
