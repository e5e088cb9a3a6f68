package repository

import (
	"context"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
)

// GuildRepository handles guild data access
type GuildRepository struct {
	store database.Store
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(store database.Store) *GuildRepository {
	return &GuildRepository{store: store}
}

// Get retrieves a guild by ID. Returns nil if absent.
func (r *GuildRepository) Get(ctx context.Context, guildID string) (*model.Guild, error) {
	return fetch[model.Guild](ctx, r.store, database.GuildKey(guildID))
}

// Load reads a guild from the transaction snapshot
func (r *GuildRepository) Load(tx *database.Tx, guildID string) (*model.Guild, error) {
	return load[model.Guild](tx, database.GuildKey(guildID))
}

// Stage writes a guild as part of the transaction. MemberCount is kept in
// step with Members.
func (r *GuildRepository) Stage(tx *database.Tx, guild *model.Guild) error {
	guild.MemberCount = len(guild.Members)
	return stage(tx, database.GuildKey(guild.ID), guild)
}
