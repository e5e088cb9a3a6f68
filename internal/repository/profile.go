package repository

import (
	"context"
	"fmt"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
)

// ProfileRepository handles user profile data access
type ProfileRepository struct {
	store database.Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store database.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Get retrieves a profile by user ID. Returns nil if absent.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	return fetch[model.UserProfile](ctx, r.store, database.ProfileKey(userID))
}

// Load reads a profile from the transaction snapshot
func (r *ProfileRepository) Load(tx *database.Tx, userID string) (*model.UserProfile, error) {
	return load[model.UserProfile](tx, database.ProfileKey(userID))
}

// Stage writes a profile as part of the transaction
func (r *ProfileRepository) Stage(tx *database.Tx, profile *model.UserProfile) error {
	return stage(tx, database.ProfileKey(profile.ID), profile)
}

// ProgressRepository handles user progress data access
type ProgressRepository struct {
	store database.Store
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(store database.Store) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// Get retrieves progress by user ID. Returns nil if absent.
func (r *ProgressRepository) Get(ctx context.Context, userID string) (*model.UserProgress, error) {
	doc, err := r.store.Get(ctx, database.ProgressKey(userID))
	if err != nil {
		return nil, err
	}
	return decodeProgress(doc)
}

// Load reads progress from the transaction snapshot
func (r *ProgressRepository) Load(tx *database.Tx, userID string) (*model.UserProgress, error) {
	key := database.ProgressKey(userID)
	doc, ok := tx.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", database.ErrWriteOutsideReadSet, key)
	}
	return decodeProgress(doc)
}

// Stage writes progress as part of the transaction. Revision is not stored.
func (r *ProgressRepository) Stage(tx *database.Tx, progress *model.UserProgress) error {
	stored := *progress
	stored.Revision = 0
	return stage(tx, database.ProgressKey(progress.UserID), &stored)
}

func decodeProgress(doc database.Document) (*model.UserProgress, error) {
	progress, err := decode[model.UserProgress](doc)
	if err != nil || progress == nil {
		return progress, err
	}
	progress.Revision = doc.Version
	return progress, nil
}
