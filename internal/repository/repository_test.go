package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
)

func TestProfileRepository_RoundTripThroughTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := database.NewMemoryStore()
	repo := NewProfileRepository(store)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	missing, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = database.Transact(ctx, store, database.DefaultTxOptions(), []database.Key{database.ProfileKey("u1")}, func(tx *database.Tx) error {
		p, err := repo.Load(tx, "u1")
		if err != nil {
			return err
		}
		require.Nil(t, p)
		return repo.Stage(tx, model.NewUserProfile("u1", "Ada", "", now))
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.DisplayName)
	assert.Equal(t, "Novice", got.Title)
	assert.True(t, got.CreatedOn.Equal(now))
}

func TestProfileRepository_LoadOutsideReadSet(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore()
	repo := NewProfileRepository(store)

	err := database.Transact(context.Background(), store, database.DefaultTxOptions(), []database.Key{database.ProgressKey("u1")}, func(tx *database.Tx) error {
		_, err := repo.Load(tx, "u1")
		return err
	})
	assert.ErrorIs(t, err, database.ErrWriteOutsideReadSet)
}

func TestGuildRepository_StageSyncsMemberCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := database.NewMemoryStore()
	repo := NewGuildRepository(store)

	err := database.Transact(ctx, store, database.DefaultTxOptions(), []database.Key{database.GuildKey("g1")}, func(tx *database.Tx) error {
		return repo.Stage(tx, &model.Guild{ID: "g1", Name: "Owls", LeaderID: "u1", Members: []string{"u1", "u2"}})
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.MemberCount)
	assert.True(t, got.Consistent())
}

func TestDecode_CorruptDocument(t *testing.T) {
	t.Parallel()

	_, err := decode[model.UserProgress](database.Document{
		Key:     database.ProgressKey("u1"),
		Data:    []byte("{not json"),
		Version: 1,
	})
	assert.ErrorIs(t, err, database.ErrQuery)
}

func TestProgressRepository_RevisionFollowsStoreVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := database.NewMemoryStore()
	repo := NewProgressRepository(store)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for range 2 {
		err := database.Transact(ctx, store, database.DefaultTxOptions(), []database.Key{database.ProgressKey("u1")}, func(tx *database.Tx) error {
			p, err := repo.Load(tx, "u1")
			if err != nil {
				return err
			}
			if p == nil {
				p = model.NewUserProgress("u1", now)
			}
			p.XP += 10
			p.Revision = 99
			return repo.Stage(tx, p)
		})
		require.NoError(t, err)
	}

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.XP)
	assert.Equal(t, int64(2), got.Revision)

	doc, err := store.Get(ctx, database.ProgressKey("u1"))
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Data), "revision")
}
