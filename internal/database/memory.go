package database

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps versioned documents in process memory. It gives the
// same commit semantics as the persistent backends but is only safe for a
// single process.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[Key]Document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[Key]Document)}
}

// Get returns a copy of the stored document
func (s *MemoryStore) Get(ctx context.Context, key Key) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return Document{Key: key}, nil
	}
	doc.Data = slices.Clone(doc.Data)
	return doc, nil
}

// Commit validates the read set and applies writes under one lock
func (s *MemoryStore) Commit(ctx context.Context, reads []Document, writes []Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	expected, err := expectedVersions(reads, writes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, version := range expected {
		if s.docs[key].Version != version {
			return ErrConflict
		}
	}
	for _, w := range writes {
		s.docs[w.Key] = Document{
			Key:     w.Key,
			Data:    slices.Clone(w.Data),
			Version: expected[w.Key] + 1,
		}
	}
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
