package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/repository"
)

// CompletionResult describes the outcome of one CompleteQuest call
type CompletionResult struct {
	QuestID          string   `json:"quest_id"`
	NewLevel         int      `json:"new_level"`
	NewXP            int      `json:"new_xp"`
	LeveledUp        bool     `json:"leveled_up"`
	LevelsGained     int      `json:"levels_gained"`
	BaseXP           int      `json:"base_xp"`
	BonusXP          int      `json:"bonus_xp"`
	ItemsAwarded     []string `json:"items_awarded"`
	BonusItems       []string `json:"bonus_items"`
	AlreadyCompleted bool     `json:"already_completed"`
	NewAchievements  []string `json:"new_achievements,omitempty"`
}

// BonusXP returns the intellect bonus for a quest worth baseXP:
// floor(baseXP * 0.02 * intellect), in integer arithmetic
func BonusXP(baseXP, intellect int) int {
	if baseXP <= 0 || intellect <= 0 {
		return 0
	}
	return baseXP * 2 * intellect / 100
}

// ProgressionService applies quest completions to a user's progress
type ProgressionService struct {
	runner
	profiles     *repository.ProfileRepository
	progress     *repository.ProgressRepository
	feed         *ProgressFeed
	achievements *AchievementService
	seed         func() uint64
}

// ProgressionServiceConfig holds configuration for the progression service
type ProgressionServiceConfig struct {
	Store     database.Store
	TxOptions database.TxOptions
	// Feed receives committed progress. Optional.
	Feed *ProgressFeed
	// Achievements is evaluated after every new completion. Optional.
	Achievements *AchievementService
	Clock        func() time.Time
	// Seed returns the seed for one completion's luck rolls. Defaults to a
	// random seed.
	Seed   func() uint64
	Logger *slog.Logger
}

// NewProgressionService creates a new progression service
func NewProgressionService(cfg ProgressionServiceConfig) *ProgressionService {
	seed := cfg.Seed
	if seed == nil {
		seed = rand.Uint64
	}
	return &ProgressionService{
		runner:       newRunner(cfg.Store, cfg.TxOptions, cfg.Clock, cfg.Logger),
		profiles:     repository.NewProfileRepository(cfg.Store),
		progress:     repository.NewProgressRepository(cfg.Store),
		feed:         cfg.Feed,
		achievements: cfg.Achievements,
		seed:         seed,
	}
}

// CompleteQuest credits a quest to userID. The completion check, XP,
// leveling, items and skill points are applied in one transaction over the
// user's profile and progress. Completing a quest already in the history
// returns the unchanged state with AlreadyCompleted set.
func (s *ProgressionService) CompleteQuest(ctx context.Context, userID string, quest model.QuestModule) (*CompletionResult, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if quest.ID == "" {
		return nil, ErrInvalidQuest
	}

	// Decided once per call so retried attempts roll identically
	seed := s.seed()
	now := s.now().UTC()

	var (
		result    *CompletionResult
		committed *model.UserProgress
	)
	keys := []database.Key{database.ProfileKey(userID), database.ProgressKey(userID)}
	err = s.transact(ctx, "complete_quest", keys, func(tx *database.Tx) error {
		result, committed = nil, nil

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

		if progress.HasCompleted(quest.ID) {
			result = &CompletionResult{
				QuestID:          quest.ID,
				NewLevel:         progress.Level,
				NewXP:            progress.XP,
				AlreadyCompleted: true,
			}
			return nil
		}

		baseXP := max(quest.Rewards.XP, 0)
		bonusXP := BonusXP(baseXP, profile.Attributes.Intellect)
		gained := progress.GainXP(baseXP + bonusXP)

		rewards := AccumulateRewards(quest.Rewards.Items, profile.Attributes.Luck, newRoller(seed))
		progress.Inventory = rewards.MergeInto(progress.Inventory)
		progress.RecordCompletion(quest.ID, now)
		progress.UpdatedOn = now
		if err := s.progress.Stage(tx, progress); err != nil {
			return err
		}
		progress.Revision++

		if gained > 0 {
			profile.SkillPoints += gained
			profile.Title = model.TitleForLevel(progress.Level)
			profile.UpdatedOn = now
			if err := s.profiles.Stage(tx, profile); err != nil {
				return err
			}
		}

		result = &CompletionResult{
			QuestID:      quest.ID,
			NewLevel:     progress.Level,
			NewXP:        progress.XP,
			LeveledUp:    gained > 0,
			LevelsGained: gained,
			BaseXP:       baseXP,
			BonusXP:      bonusXP,
			ItemsAwarded: rewards.Items,
			BonusItems:   rewards.BonusItems,
		}
		committed = progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.AlreadyCompleted {
		return result, nil
	}

	s.logger.Info("quest completed",
		slog.String("user_id", userID),
		slog.String("quest_id", quest.ID),
		slog.Int("level", result.NewLevel),
		slog.Int("xp", result.NewXP),
		slog.Int("bonus_items", len(result.BonusItems)),
	)

	if s.feed != nil {
		s.feed.Publish(*committed)
	}
	if s.achievements != nil {
		unlocked, err := s.achievements.CheckForNewAchievements(ctx, userID)
		if err != nil {
			s.logger.Warn("achievement check failed after completion",
				slog.String("user_id", userID),
				slog.String("quest_id", quest.ID),
				slog.String("error", err.Error()),
			)
		} else {
			result.NewAchievements = unlocked
		}
	}
	return result, nil
}
