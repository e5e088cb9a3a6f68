package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/repository"
)

func TestCreateGuild(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)

	guild, err := env.guilds.CreateGuild(context.Background(), "leader", model.CreateGuildRequest{
		Name:        "  Night Owls ",
		Description: "Study after dark",
	})
	require.NoError(t, err)

	assert.Equal(t, "Night Owls", guild.Name)
	assert.Equal(t, "leader", guild.LeaderID)
	assert.Equal(t, []string{"leader"}, guild.Members)
	assert.True(t, guild.Consistent())

	stored, err := env.guilds.GetGuild(context.Background(), guild.ID)
	require.NoError(t, err)
	assert.Equal(t, guild.ID, stored.ID)

	profile := env.profile(t, "leader")
	require.NotNil(t, profile.GuildID)
	assert.Equal(t, guild.ID, *profile.GuildID)
}

func TestCreateGuild_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)

	tests := []struct {
		name string
		req  model.CreateGuildRequest
		want error
	}{
		{"empty name", model.CreateGuildRequest{Name: "   "}, ErrGuildNameRequired},
		{"long name", model.CreateGuildRequest{Name: strings.Repeat("a", model.MaxGuildNameLength+1)}, ErrGuildNameTooLong},
		{"long description", model.CreateGuildRequest{Name: "ok", Description: strings.Repeat("d", model.MaxGuildDescLength+1)}, ErrGuildDescTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.guilds.CreateGuild(context.Background(), "leader", tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
	assert.Nil(t, env.profile(t, "leader").GuildID)
}

func TestCreateGuild_AlreadyInGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)

	_, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "First"})
	require.NoError(t, err)
	_, err = env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Second"})
	assert.ErrorIs(t, err, ErrAlreadyInGuild)

	_, err = env.guilds.CreateGuild(ctx, "ghost", model.CreateGuildRequest{Name: "Third"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestJoinAndLeaveGuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	env.ensureUser(t, "u1", nil)

	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)

	joined, err := env.guilds.JoinGuild(ctx, guild.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, joined.MemberCount)
	assert.True(t, joined.Consistent())

	_, err = env.guilds.JoinGuild(ctx, guild.ID, "u1")
	assert.ErrorIs(t, err, ErrAlreadyInGuild)

	require.NoError(t, env.guilds.LeaveGuild(ctx, guild.ID, "u1"))
	assert.Nil(t, env.profile(t, "u1").GuildID)

	stored, err := env.guilds.GetGuild(ctx, guild.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"leader"}, stored.Members)
	assert.Equal(t, 1, stored.MemberCount)

	err = env.guilds.LeaveGuild(ctx, guild.ID, "u1")
	assert.ErrorIs(t, err, ErrNotGuildMember)
}

func TestJoinGuild_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)

	_, err = env.guilds.JoinGuild(ctx, "missing", "leader")
	assert.ErrorIs(t, err, ErrGuildNotFound)

	_, err = env.guilds.JoinGuild(ctx, guild.ID, "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = env.guilds.GetGuild(ctx, "missing")
	assert.ErrorIs(t, err, ErrGuildNotFound)
}

func TestJoinGuild_Full(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	env.ensureUser(t, "late", nil)
	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)
	fillGuild(t, env, guild.ID, model.MaxMembersPerGuild)

	_, err = env.guilds.JoinGuild(ctx, guild.ID, "late")
	assert.ErrorIs(t, err, ErrGuildFull)
	assert.Nil(t, env.profile(t, "late").GuildID)
}

func TestLeaveGuild_LeaderCannotLeave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)
	guildVersion := env.version(t, database.GuildKey(guild.ID))
	profileVersion := env.version(t, database.ProfileKey("leader"))

	err = env.guilds.LeaveGuild(ctx, guild.ID, "leader")
	assert.ErrorIs(t, err, ErrLeaderCannotLeave)
	assert.Equal(t, guildVersion, env.version(t, database.GuildKey(guild.ID)))
	assert.Equal(t, profileVersion, env.version(t, database.ProfileKey("leader")))

	err = env.guilds.LeaveGuild(ctx, "missing", "leader")
	assert.ErrorIs(t, err, ErrGuildNotFound)
}

func TestJoinGuild_ConcurrentJoinsAllLand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)

	const joiners = 20
	for i := range joiners {
		env.ensureUser(t, fmt.Sprintf("u%d", i), nil)
	}

	var wg sync.WaitGroup
	errs := make(chan error, joiners)
	for i := range joiners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.guilds.JoinGuild(ctx, guild.ID, fmt.Sprintf("u%d", i))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := env.guilds.GetGuild(ctx, guild.ID)
	require.NoError(t, err)
	assert.Equal(t, joiners+1, stored.MemberCount)
	assert.True(t, stored.Consistent())
	for i := range joiners {
		profile := env.profile(t, fmt.Sprintf("u%d", i))
		require.NotNil(t, profile.GuildID)
		assert.Equal(t, guild.ID, *profile.GuildID)
	}
}

func TestJoinGuild_RaceForLastSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	env.ensureUser(t, "a", nil)
	env.ensureUser(t, "b", nil)
	guild, err := env.guilds.CreateGuild(ctx, "leader", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)
	fillGuild(t, env, guild.ID, model.MaxMembersPerGuild-1)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, user := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = env.guilds.JoinGuild(ctx, guild.ID, user)
		}()
	}
	wg.Wait()

	var joined, full int
	for _, err := range results {
		switch {
		case err == nil:
			joined++
		case errors.Is(err, ErrGuildFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, joined)
	assert.Equal(t, 1, full)

	stored, err := env.guilds.GetGuild(ctx, guild.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaxMembersPerGuild, stored.MemberCount)
}

// fillGuild pads the member set with placeholder ids up to size
func fillGuild(t *testing.T, env *testEnv, guildID string, size int) {
	t.Helper()

	repo := repository.NewGuildRepository(env.store)
	err := database.Transact(context.Background(), env.store, env.opts, []database.Key{database.GuildKey(guildID)}, func(tx *database.Tx) error {
		g, err := repo.Load(tx, guildID)
		if err != nil {
			return err
		}
		for i := 0; len(g.Members) < size; i++ {
			g.AddMember(fmt.Sprintf("filler-%d", i))
		}
		return repo.Stage(tx, g)
	})
	require.NoError(t, err)
}

// idSequence returns ids in order, repeating the last one
func idSequence(ids ...string) func() string {
	var (
		mu   sync.Mutex
		next int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[min(next, len(ids)-1)]
		next++
		return id
	}
}

func TestCreateGuild_ReplacesTakenID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "a", nil)
	env.ensureUser(t, "b", nil)
	env.guilds.newID = idSequence("dup", "dup", "fresh")

	first, err := env.guilds.CreateGuild(ctx, "a", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)

	second, err := env.guilds.CreateGuild(ctx, "b", model.CreateGuildRequest{Name: "Foxes"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.ID)

	stored, err := env.guilds.GetGuild(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "a", stored.LeaderID)
	assert.Equal(t, []string{"a"}, stored.Members)
}

func TestCreateGuild_TakenIDExhausted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "a", nil)
	env.ensureUser(t, "b", nil)
	env.guilds.newID = idSequence("dup")

	_, err := env.guilds.CreateGuild(ctx, "a", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)

	_, err = env.guilds.CreateGuild(ctx, "b", model.CreateGuildRequest{Name: "Foxes"})
	assert.ErrorIs(t, err, ErrGuildIDTaken)
	assert.Equal(t, KindTransactionConflict, KindOf(err))
	assert.True(t, Retryable(err))
	assert.Nil(t, env.profile(t, "b").GuildID)
}

func TestGuildOperations_TrimUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, database.NewMemoryStore())
	env.ensureUser(t, "leader", nil)
	env.ensureUser(t, "u1", nil)

	guild, err := env.guilds.CreateGuild(ctx, " leader ", model.CreateGuildRequest{Name: "Owls"})
	require.NoError(t, err)
	assert.Equal(t, "leader", guild.LeaderID)

	joined, err := env.guilds.JoinGuild(ctx, guild.ID, "u1 ")
	require.NoError(t, err)
	assert.True(t, joined.HasMember("u1"))

	require.NoError(t, env.guilds.LeaveGuild(ctx, guild.ID, "\tu1"))
	assert.Nil(t, env.profile(t, "u1").GuildID)

	_, err = env.guilds.JoinGuild(ctx, guild.ID, "  ")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}
