package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
)

func TestEnsureUser_CreatesDefaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, database.NewMemoryStore())

	profile, err := env.profiles.EnsureUser(context.Background(), "u1", "Ada", "owl.png")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.Equal(t, "owl.png", profile.Avatar)
	assert.Equal(t, "Novice", profile.Title)
	assert.Zero(t, profile.SkillPoints)
	assert.Equal(t, model.Attributes{}, profile.Attributes)
	assert.Nil(t, profile.GuildID)

	progress := env.progress(t, "u1")
	assert.Equal(t, model.StartingLevel, progress.Level)
	assert.Zero(t, progress.XP)
	assert.Equal(t, model.StartingHealth, progress.Health)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "u1", func(p *model.UserProfile) { p.SkillPoints = 4 })
	profileVersion := env.version(t, database.ProfileKey("u1"))
	progressVersion := env.version(t, database.ProgressKey("u1"))

	profile, err := env.profiles.EnsureUser(ctx, "u1", "Someone Else", "")
	require.NoError(t, err)
	assert.Equal(t, 4, profile.SkillPoints)
	assert.Equal(t, "u1", profile.DisplayName)
	assert.Equal(t, profileVersion, env.version(t, database.ProfileKey("u1")))
	assert.Equal(t, progressVersion, env.version(t, database.ProgressKey("u1")))
}

func TestEnsureUser_RequiresID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, database.NewMemoryStore())
	_, err := env.profiles.EnsureUser(context.Background(), "  ", "x", "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}

func TestGetProfile_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, database.NewMemoryStore())
	_, err := env.profiles.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = env.profiles.GetProgress(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileReads_TrimUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())

	_, err := env.profiles.EnsureUser(ctx, " u1 ", "", "")
	require.NoError(t, err)

	profile, err := env.profiles.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "u1", profile.DisplayName)

	progress, err := env.profiles.GetProgress(ctx, "\tu1")
	require.NoError(t, err)
	assert.Equal(t, "u1", progress.UserID)
}
