package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgo/quest/internal/catalog"
	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/repository"
)

// AchievementService unlocks achievements whose rules hold
type AchievementService struct {
	runner
	profiles *repository.ProfileRepository
	progress *repository.ProgressRepository
	rules    []catalog.AchievementRule
}

// AchievementServiceConfig holds configuration for the achievement service
type AchievementServiceConfig struct {
	Store     database.Store
	TxOptions database.TxOptions
	// Rules defaults to catalog.Achievements()
	Rules  []catalog.AchievementRule
	Clock  func() time.Time
	Logger *slog.Logger
}

// NewAchievementService creates a new achievement service
func NewAchievementService(cfg AchievementServiceConfig) *AchievementService {
	rules := cfg.Rules
	if rules == nil {
		rules = catalog.Achievements()
	}
	return &AchievementService{
		runner:   newRunner(cfg.Store, cfg.TxOptions, cfg.Clock, cfg.Logger),
		profiles: repository.NewProfileRepository(cfg.Store),
		progress: repository.NewProgressRepository(cfg.Store),
		rules:    rules,
	}
}

// CheckForNewAchievements evaluates every rule not yet unlocked and writes
// all newly earned achievements in one profile write. It returns the newly
// unlocked ids in catalog order; none means nothing was written.
func (s *AchievementService) CheckForNewAchievements(ctx context.Context, userID string) ([]string, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	var unlocked []string
	keys := []database.Key{database.ProfileKey(userID), database.ProgressKey(userID)}
	err = s.transact(ctx, "check_achievements", keys, func(tx *database.Tx) error {
		unlocked = nil

		profile, err := s.profiles.Load(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		progress, err := s.progress.Load(tx, userID)
		if err != nil {
			return err
		}
		if progress == nil {
			return ErrProfileNotFound
		}

		now := s.now().UTC()
		for _, rule := range s.rules {
			if profile.HasAchievement(rule.ID) || !rule.Earned(profile, progress) {
				continue
			}
			profile.UnlockAchievement(rule.ID, now)
			unlocked = append(unlocked, rule.ID)
		}
		if len(unlocked) == 0 {
			return nil
		}
		profile.UpdatedOn = now
		return s.profiles.Stage(tx, profile)
	})
	if err != nil {
		return nil, err
	}

	if len(unlocked) > 0 {
		s.logger.Info("achievements unlocked",
			slog.String("user_id", userID),
			slog.Any("achievements", unlocked),
		)
	}
	return unlocked, nil
}
