package like

import (
	"context"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/apperr"
	"racefinder/internal/ratelimit"
)

const maxIDLength = 128

var eventIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// LimitSource supplies the current toggle budget.
type LimitSource interface {
	LikeLimits(ctx context.Context) (int, time.Duration, error)
}

// Publisher receives new totals after a successful toggle.
type Publisher interface {
	PublishLikes(eventID string, total int64)
}

type Service struct {
	repo      Repository
	limiter   ratelimit.Limiter
	limits    LimitSource
	publisher Publisher
}

func NewService(repo Repository, limiter ratelimit.Limiter, limits LimitSource, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		limiter:   limiter,
		limits:    limits,
		publisher: publisher,
	}
}

func validEventID(id string) error {
	if !eventIDPattern.MatchString(id) {
		return ErrInvalidEventID
	}
	return nil
}

func validUserID(id string) error {
	if id == "" || len(id) > maxIDLength {
		return ErrInvalidUserID
	}
	return nil
}

func (s *Service) Toggle(ctx context.Context, eventID, userID string) (Result, error) {
	if err := validEventID(eventID); err != nil {
		return Result{}, err
	}
	if err := validUserID(userID); err != nil {
		return Result{}, err
	}

	limit, window, err := s.limits.LikeLimits(ctx)
	if err != nil {
		log.WithError(err).Warn("like limits unavailable, using defaults")
	}
	// budget is spent before the event lookup, so unknown events cost a slot too
	allowed, err := s.limiter.Allow(ctx, "like:"+userID, limit, window)
	if err != nil {
		return Result{}, apperr.Storage(err)
	}
	if !allowed {
		return Result{}, ErrRateLimited
	}

	res, err := s.repo.Toggle(ctx, eventID, userID)
	if err != nil {
		return Result{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishLikes(eventID, res.TotalLikes)
	}
	return res, nil
}

func (s *Service) IsLiked(ctx context.Context, eventID, userID string) (bool, error) {
	if err := validEventID(eventID); err != nil {
		return false, err
	}
	if err := validUserID(userID); err != nil {
		return false, err
	}
	return s.repo.Exists(ctx, eventID, userID)
}

func (s *Service) Count(ctx context.Context, eventID string) (int64, error) {
	if err := validEventID(eventID); err != nil {
		return 0, err
	}
	return s.repo.Counter(ctx, eventID)
}

func (s *Service) LikedEventIDs(ctx context.Context, userID string) ([]string, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.EventIDs(ctx, userID)
}

// Reconcile repairs counters that drifted from their like records.
func (s *Service) Reconcile(ctx context.Context) ([]Drift, error) {
	drifts, err := s.repo.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drifts {
		log.WithFields(log.Fields{
			"event_id": d.EventID,
			"stored":   d.Stored,
			"actual":   d.Actual,
		}).Warn("like counter drift repaired")
		if s.publisher != nil {
			s.publisher.PublishLikes(d.EventID, d.Actual)
		}
	}
	return drifts, nil
}
