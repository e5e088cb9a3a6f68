package database

import (
	"context"
	"fmt"
)

// Collection names one logical document collection
type Collection string

const (
	CollectionProfiles Collection = "user_profile"
	CollectionProgress Collection = "user_progress"
	CollectionGuilds   Collection = "guild"
)

// Key addresses a single document
type Key struct {
	Collection Collection
	ID         string
}

// ProfileKey returns the key of a user's profile document
func ProfileKey(userID string) Key { return Key{Collection: CollectionProfiles, ID: userID} }

// ProgressKey returns the key of a user's progress document
func ProgressKey(userID string) Key { return Key{Collection: CollectionProgress, ID: userID} }

// GuildKey returns the key of a guild document
func GuildKey(guildID string) Key { return Key{Collection: CollectionGuilds, ID: guildID} }

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Collection, k.ID)
}

// Document is a versioned snapshot of a stored record. Version 0 means the
// document does not exist; the first write creates version 1.
type Document struct {
	Key     Key
	Data    []byte
	Version int64
}

// Exists reports whether the snapshot refers to a stored document
func (d Document) Exists() bool {
	return d.Version > 0
}

// Write replaces a document's payload
type Write struct {
	Key  Key
	Data []byte
}

// Store is the primitive every backend implements.
//
// Get never fails for a missing key; it returns a Document with Version 0.
// Commit atomically checks that every read snapshot still carries the same
// version and applies the writes, bumping each written version by one. If
// any version moved it applies nothing and returns ErrConflict.
type Store interface {
	Get(ctx context.Context, key Key) (Document, error)
	Commit(ctx context.Context, reads []Document, writes []Write) error
	Close() error
}

// expectedVersions indexes the read set and rejects writes outside it
func expectedVersions(reads []Document, writes []Write) (map[Key]int64, error) {
	expected := make(map[Key]int64, len(reads))
	for _, r := range reads {
		expected[r.Key] = r.Version
	}
	for _, w := range writes {
		if _, ok := expected[w.Key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrWriteOutsideReadSet, w.Key)
		}
	}
	return expected, nil
}
