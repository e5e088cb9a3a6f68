// Package app wires configuration into a store and the quest services.
// Both the HTTP server and questctl build their dependencies through it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgo/quest/internal/catalog"
	"github.com/forgo/quest/internal/config"
	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/service"
)

// OpenStore opens the record store selected by cfg.Store.Driver
func OpenStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return database.NewMemoryStore(), nil
	case config.DriverSQLite:
		store, err := database.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverRedis:
		store, err := database.OpenRedis(ctx, database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverSurrealDB:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		return database.NewSurrealStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Services holds one instance of every quest service over a shared store
type Services struct {
	Quests       *catalog.QuestCatalog
	Feed         *service.ProgressFeed
	Profiles     *service.ProfileService
	Progression  *service.ProgressionService
	Skills       *service.SkillService
	Achievements *service.AchievementService
	Guilds       *service.GuildService
}

// NewServices builds the services. quests may be nil when no quest feed is
// needed.
func NewServices(store database.Store, cfg *config.Config, quests *catalog.QuestCatalog, logger *slog.Logger) *Services {
	opts := database.TxOptions{
		MaxAttempts:    cfg.Tx.MaxAttempts,
		InitialBackoff: cfg.Tx.InitialBackoff,
		MaxBackoff:     cfg.Tx.MaxBackoff,
	}
	feed := service.NewProgressFeed(cfg.Quests.FeedBuffer)
	achievements := service.NewAchievementService(service.AchievementServiceConfig{
		Store:     store,
		TxOptions: opts,
		Logger:    logger,
	})

	return &Services{
		Quests:       quests,
		Feed:         feed,
		Profiles:     service.NewProfileService(service.ProfileServiceConfig{Store: store, TxOptions: opts, Logger: logger}),
		Achievements: achievements,
		Progression: service.NewProgressionService(service.ProgressionServiceConfig{
			Store:        store,
			TxOptions:    opts,
			Feed:         feed,
			Achievements: achievements,
			Logger:       logger,
		}),
		Skills: service.NewSkillService(service.SkillServiceConfig{Store: store, TxOptions: opts, Logger: logger}),
		Guilds: service.NewGuildService(service.GuildServiceConfig{Store: store, TxOptions: opts, Logger: logger}),
	}
}

// Close releases the progress feed; the store is closed by its owner
func (s *Services) Close() {
	s.Feed.Close()
}
