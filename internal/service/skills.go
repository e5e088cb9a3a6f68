package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/repository"
)

// SkillService spends skill points on attributes
type SkillService struct {
	runner
	profiles *repository.ProfileRepository
}

// SkillServiceConfig holds configuration for the skill service
type SkillServiceConfig struct {
	Store     database.Store
	TxOptions database.TxOptions
	Clock     func() time.Time
	Logger    *slog.Logger
}

// NewSkillService creates a new skill service
func NewSkillService(cfg SkillServiceConfig) *SkillService {
	return &SkillService{
		runner:   newRunner(cfg.Store, cfg.TxOptions, cfg.Clock, cfg.Logger),
		profiles: repository.NewProfileRepository(cfg.Store),
	}
}

// SpendSkillPoint moves one skill point into attr
func (s *SkillService) SpendSkillPoint(ctx context.Context, userID string, attr model.Attribute) error {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	if !attr.IsValid() {
		return ErrInvalidAttribute
	}

	return s.transact(ctx, "spend_skill_point", []database.Key{database.ProfileKey(userID)}, func(tx *database.Tx) error {
		profile, err := s.profiles.Load(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrProfileNotFound
		}
		if profile.SkillPoints < 1 {
			return ErrInsufficientSkillPoints
		}

		profile.SkillPoints--
		profile.Attributes.Increment(attr)
		profile.UpdatedOn = s.now().UTC()
		return s.profiles.Stage(tx, profile)
	})
}
