package database

import (
	"context"
	"errors"
	"fmt"
)

const versionConflictMessage = "version conflict"

// SurrealStore keeps documents as {data, version} records in SurrealDB.
// A commit is one BEGIN/COMMIT TRANSACTION block that first guards every
// read version with THROW and then upserts the writes.
type SurrealStore struct {
	db Database
}

// NewSurrealStore creates a document store on top of a SurrealDB connection
func NewSurrealStore(db Database) *SurrealStore {
	return &SurrealStore{db: db}
}

// Get loads one document
func (s *SurrealStore) Get(ctx context.Context, key Key) (Document, error) {
	query := `SELECT data, version FROM type::thing($tb, $id)`
	vars := map[string]interface{}{
		"tb": string(key.Collection),
		"id": key.ID,
	}

	result, err := s.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{Key: key}, nil
		}
		return Document{}, err
	}

	record, ok := result.(map[string]interface{})
	if !ok {
		return Document{}, fmt.Errorf("%w: unexpected result format for %s", ErrQuery, key)
	}
	data, _ := record["data"].(string)
	return Document{Key: key, Data: []byte(data), Version: toInt64(record["version"])}, nil
}

// Commit guards the read set and writes inside one SurrealDB transaction
func (s *SurrealStore) Commit(ctx context.Context, reads []Document, writes []Write) error {
	expected, err := expectedVersions(reads, writes)
	if err != nil {
		return err
	}

	tb := NewTxBuilder()
	for key, version := range expected {
		tb.Add(
			`IF ((SELECT VALUE version FROM type::thing($tb, $id))[0] ?? 0) != $expected { THROW "`+versionConflictMessage+`" }`,
			map[string]interface{}{
				"tb":       string(key.Collection),
				"id":       key.ID,
				"expected": version,
			},
		)
	}
	for _, w := range writes {
		tb.Add(
			`UPSERT type::thing($tb, $id) CONTENT { data: $data, version: $version, updated_on: time::now() } RETURN NONE`,
			map[string]interface{}{
				"tb":      string(w.Key.Collection),
				"id":      w.Key.ID,
				"data":    string(w.Data),
				"version": expected[w.Key] + 1,
			},
		)
	}

	_, err = ExecuteTransaction(ctx, s.db, tb)
	return err
}

// Close closes the underlying connection
func (s *SurrealStore) Close() error {
	return s.db.Close()
}

// toInt64 converts the numeric types the CBOR decoder may produce
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	}
	return 0
}

var _ Store = (*SurrealStore)(nil)
