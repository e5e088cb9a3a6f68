package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/repository"
)

// GuildService handles guild membership. Every operation touches the
// guild document and the member's profile in one transaction, so the
// profile's guild reference and the guild's member set move together.
type GuildService struct {
	runner
	guilds   *repository.GuildRepository
	profiles *repository.ProfileRepository
	newID    func() string
}

// GuildServiceConfig holds configuration for the guild service
type GuildServiceConfig struct {
	Store     database.Store
	TxOptions database.TxOptions
	Clock     func() time.Time
	// NewID generates guild ids. Defaults to uuid.NewString.
	NewID  func() string
	Logger *slog.Logger
}

// NewGuildService creates a new guild service
func NewGuildService(cfg GuildServiceConfig) *GuildService {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &GuildService{
		runner:   newRunner(cfg.Store, cfg.TxOptions, cfg.Clock, cfg.Logger),
		guilds:   repository.NewGuildRepository(cfg.Store),
		profiles: repository.NewProfileRepository(cfg.Store),
		newID:    newID,
	}
}

// GetGuild retrieves a guild by ID
func (s *GuildService) GetGuild(ctx context.Context, guildID string) (*model.Guild, error) {
	guild, err := s.guilds.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if guild == nil {
		return nil, ErrGuildNotFound
	}
	return guild, nil
}

func validateGuildRequest(req *model.CreateGuildRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		return ErrGuildNameRequired
	}
	if utf8.RuneCountInString(req.Name) > model.MaxGuildNameLength {
		return ErrGuildNameTooLong
	}
	if utf8.RuneCountInString(req.Description) > model.MaxGuildDescLength {
		return ErrGuildDescTooLong
	}
	return nil
}

// maxGuildIDAttempts bounds how many generated ids CreateGuild tries
const maxGuildIDAttempts = 3

// CreateGuild creates a guild led by leaderID, who becomes its first member.
// A generated id that is already in use is replaced with a fresh one.
func (s *GuildService) CreateGuild(ctx context.Context, leaderID string, req model.CreateGuildRequest) (*model.Guild, error) {
	leaderID, err := normalizeUserID(leaderID)
	if err != nil {
		return nil, err
	}
	if err := validateGuildRequest(&req); err != nil {
		return nil, err
	}

	for range maxGuildIDAttempts {
		guildID := s.newID()
		created, err := s.createGuild(ctx, leaderID, guildID, req)
		if errors.Is(err, ErrGuildIDTaken) {
			s.logger.Warn("generated guild id collided", slog.String("guild_id", guildID))
			continue
		}
		return created, err
	}
	return nil, ErrGuildIDTaken
}

func (s *GuildService) createGuild(ctx context.Context, leaderID, guildID string, req model.CreateGuildRequest) (*model.Guild, error) {
	var created *model.Guild

	keys := []database.Key{database.ProfileKey(leaderID), database.GuildKey(guildID)}
	err := s.transact(ctx, "create_guild", keys, func(tx *database.Tx) error {
		created = nil

		profile, err := s.profiles.Load(tx, leaderID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		if profile.InGuild() {
			return ErrAlreadyInGuild
		}
		existing, err := s.guilds.Load(tx, guildID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrGuildIDTaken
		}

		now := s.now().UTC()
		guild := &model.Guild{
			ID:          guildID,
			Name:        req.Name,
			Description: req.Description,
			Emblem:      req.Emblem,
			LeaderID:    leaderID,
			CreatedOn:   now,
			UpdatedOn:   now,
		}
		guild.AddMember(leaderID)

		profile.GuildID = &guild.ID
		profile.UpdatedOn = now

		if err := s.guilds.Stage(tx, guild); err != nil {
			return err
		}
		if err := s.profiles.Stage(tx, profile); err != nil {
			return err
		}
		created = guild
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guild created",
		slog.String("guild_id", created.ID),
		slog.String("leader_id", leaderID),
	)
	return created, nil
}

// JoinGuild adds userID to the guild's member set and points the user's
// profile at the guild
func (s *GuildService) JoinGuild(ctx context.Context, guildID, userID string) (*model.Guild, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	var joined *model.Guild
	keys := []database.Key{database.ProfileKey(userID), database.GuildKey(guildID)}
	err = s.transact(ctx, "join_guild", keys, func(tx *database.Tx) error {
		joined = nil

		guild, err := s.guilds.Load(tx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			return ErrGuildNotFound
		}
		profile, err := s.profiles.Load(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		if profile.InGuild() || guild.HasMember(userID) {
			return ErrAlreadyInGuild
		}
		if len(guild.Members) >= model.MaxMembersPerGuild {
			return ErrGuildFull
		}

		now := s.now().UTC()
		guild.AddMember(userID)
		guild.UpdatedOn = now
		profile.GuildID = &guild.ID
		profile.UpdatedOn = now

		if err := s.guilds.Stage(tx, guild); err != nil {
			return err
		}
		if err := s.profiles.Stage(tx, profile); err != nil {
			return err
		}
		joined = guild
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guild joined",
		slog.String("guild_id", guildID),
		slog.String("user_id", userID),
		slog.Int("member_count", joined.MemberCount),
	)
	return joined, nil
}

// LeaveGuild removes userID from the guild. The leader cannot leave.
func (s *GuildService) LeaveGuild(ctx context.Context, guildID, userID string) error {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return err
	}

	keys := []database.Key{database.ProfileKey(userID), database.GuildKey(guildID)}
	err = s.transact(ctx, "leave_guild", keys, func(tx *database.Tx) error {
		guild, err := s.guilds.Load(tx, guildID)
		if err != nil {
			return err
		}
		if guild == nil {
			return ErrGuildNotFound
		}
		if guild.LeaderID == userID {
			return ErrLeaderCannotLeave
		}
		if !guild.HasMember(userID) {
			return ErrNotGuildMember
		}

		now := s.now().UTC()
		guild.RemoveMember(userID)
		guild.UpdatedOn = now
		if err := s.guilds.Stage(tx, guild); err != nil {
			return err
		}

		profile, err := s.profiles.Load(tx, userID)
		if err != nil {
			return err
		}
		if profile != nil && profile.GuildID != nil && *profile.GuildID == guildID {
			profile.GuildID = nil
			profile.UpdatedOn = now
			return s.profiles.Stage(tx, profile)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("guild left",
		slog.String("guild_id", guildID),
		slog.String("user_id", userID),
	)
	return nil
}
