package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgo/quest/internal/database"
)

// decode unmarshals a document, returning nil for a missing one
func decode[T any](doc database.Document) (*T, error) {
	if !doc.Exists() {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(doc.Data, &v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", database.ErrQuery, doc.Key, err)
	}
	return &v, nil
}

// fetch reads and decodes the latest committed version of key
func fetch[T any](ctx context.Context, store database.Store, key database.Key) (*T, error) {
	doc, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decode[T](doc)
}

// load decodes key from the transaction's snapshot
func load[T any](tx *database.Tx, key database.Key) (*T, error) {
	doc, ok := tx.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrWriteOutsideReadSet, key)
	}
	return decode[T](doc)
}

// stage encodes v and stages it as the new payload of key
func stage(tx *database.Tx, key database.Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Put(key, data)
}
