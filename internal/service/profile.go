package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/forgo/quest/internal/database"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/repository"
)

// ProfileService bootstraps users and serves their records
type ProfileService struct {
	runner
	profiles *repository.ProfileRepository
	progress *repository.ProgressRepository
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	Store     database.Store
	TxOptions database.TxOptions
	Clock     func() time.Time
	Logger    *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	return &ProfileService{
		runner:   newRunner(cfg.Store, cfg.TxOptions, cfg.Clock, cfg.Logger),
		profiles: repository.NewProfileRepository(cfg.Store),
		progress: repository.NewProgressRepository(cfg.Store),
	}
}

// EnsureUser creates the profile and progress records of a user on first
// authentication. Existing records are left untouched.
func (s *ProfileService) EnsureUser(ctx context.Context, userID, displayName, avatar string) (*model.UserProfile, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userID
	}

	var (
		result  *model.UserProfile
		created bool
	)
	keys := []database.Key{database.ProfileKey(userID), database.ProgressKey(userID)}
	err = s.transact(ctx, "ensure_user", keys, func(tx *database.Tx) error {
		result, created = nil, false

		now := s.now().UTC()
		profile, err := s.profiles.Load(tx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			profile = model.NewUserProfile(userID, displayName, avatar, now)
			if err := s.profiles.Stage(tx, profile); err != nil {
				return err
			}
			created = true
		}

		progress, err := s.progress.Load(tx, userID)
		if err != nil {
			return err
		}
		if progress == nil {
			if err := s.progress.Stage(tx, model.NewUserProgress(userID, now)); err != nil {
				return err
			}
		}

		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("user created", slog.String("user_id", userID))
	}
	return result, nil
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// GetProgress retrieves a user's progress
func (s *ProfileService) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return nil, ErrProfileNotFound
	}
	return progress, nil
}
