package settings

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/validator"
)

// Defaults seed the singleton the first time it is read.
type Defaults struct {
	RequireApproval bool
	LikeRateLimit   int
	LikeRateWindow  time.Duration
}

type Service struct {
	repo     Repository
	defaults Defaults
}

func NewService(repo Repository, defaults Defaults) *Service {
	return &Service{repo: repo, defaults: defaults}
}

func (s *Service) seed() SystemSettings {
	return SystemSettings{
		ID:                    SingletonID,
		RequireApproval:       s.defaults.RequireApproval,
		LikeRateLimit:         s.defaults.LikeRateLimit,
		LikeRateWindowSeconds: int(s.defaults.LikeRateWindow / time.Second),
		UpdatedBy:             "system",
	}
}

func (s *Service) Get(ctx context.Context) (*SystemSettings, error) {
	return s.repo.GetOrCreate(ctx, s.seed())
}

// EnsureDefaults creates the singleton if it does not exist. Safe on every start.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	_, err := s.Get(ctx)
	return err
}

func (s *Service) Merge(ctx context.Context, patch Patch, adminEmail string) (*SystemSettings, error) {
	if patch.RequireApproval == nil && patch.LikeRateLimit == nil && patch.LikeRateWindowSeconds == nil && len(patch.FeatureFlags) == 0 {
		return nil, ErrEmptyPatch
	}
	if errs := validator.Validate(patch); errs != nil {
		return nil, ErrInvalidPatch
	}

	updated, err := s.repo.Update(ctx, s.seed(), func(cur *SystemSettings) {
		patch.apply(cur)
		cur.UpdatedBy = adminEmail
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"updated_by":       adminEmail,
		"require_approval": updated.RequireApproval,
		"like_rate_limit":  updated.LikeRateLimit,
	}).Info("system settings updated")
	return updated, nil
}

func (s *Service) RequireApproval(ctx context.Context) (bool, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return true, err
	}
	return cur.RequireApproval, nil
}

// LikeLimits returns the toggle budget per user and the window it applies to.
func (s *Service) LikeLimits(ctx context.Context) (int, time.Duration, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return s.defaults.LikeRateLimit, s.defaults.LikeRateWindow, err
	}
	return cur.LikeRateLimit, cur.LikeRateWindow(), nil
}
