package admin

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/apperr"
	"racefinder/internal/pkg/validator"
)

// SettingsInitializer is the part of the settings store bootstrap needs.
type SettingsInitializer interface {
	EnsureDefaults(ctx context.Context) error
}

type AddInput struct {
	Email       string `json:"email" binding:"required" validate:"required,email,max=320"`
	DisplayName string `json:"display_name" validate:"max=200"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url,max=1024"`
	Role        Role   `json:"role"`
}

type Service struct {
	repo     Repository
	settings SettingsInitializer
	now      func() time.Time
}

func NewService(repo Repository, settings SettingsInitializer) *Service {
	return &Service{repo: repo, settings: settings, now: time.Now}
}

// lookup tries the canonical email key first and falls back to the email
// column for legacy UUID-keyed records.
func (s *Service) lookup(ctx context.Context, email string) (*Administrator, error) {
	a, err := s.repo.GetByID(ctx, email)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}

	a, err := s.lookup(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.IsActive, nil
}

func (s *Service) Get(ctx context.Context, email string) (*Administrator, error) {
	return s.lookup(ctx, NormalizeEmail(email))
}

func (s *Service) List(ctx context.Context, page, limit int) ([]Administrator, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

func (s *Service) Add(ctx context.Context, in AddInput, addedBy string) (*Administrator, error) {
	in.Email = NormalizeEmail(in.Email)
	if errs := validator.Validate(in); errs != nil {
		if _, ok := errs["Email"]; ok {
			return nil, ErrInvalidEmail
		}
		return nil, apperr.Invalid("display name or avatar url is invalid")
	}

	if in.Role == "" {
		in.Role = RoleAdmin
	}
	if in.Role != RoleAdmin && in.Role != RoleSuperAdmin {
		return nil, ErrInvalidRole
	}

	addedBy = NormalizeEmail(addedBy)
	if in.Role == RoleSuperAdmin && addedBy != SystemActor {
		granter, err := s.lookup(ctx, addedBy)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if granter == nil || !granter.IsSuperAdmin() {
			return nil, ErrSuperAdminRequired
		}
	}

	if _, err := s.lookup(ctx, in.Email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	a := &Administrator{
		ID:          in.Email,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		Role:        in.Role,
		AddedBy:     addedBy,
		AddedAt:     s.now().UTC(),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"email":    a.Email,
		"role":     a.Role,
		"added_by": a.AddedBy,
	}).Info("administrator added")
	return a, nil
}

func (s *Service) Remove(ctx context.Context, email string) error {
	a, err := s.lookup(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if a.IsSuperAdmin() {
		return ErrCannotRemoveSuperAdmin
	}

	deleted, err := s.repo.DeleteAdmin(ctx, a.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	log.WithField("email", a.Email).Info("administrator removed")
	return nil
}

// UpdateLastLogin stamps the sign-in time. It never fails the caller.
func (s *Service) UpdateLastLogin(ctx context.Context, email string) {
	entry := log.WithField("email", email)

	a, err := s.lookup(ctx, NormalizeEmail(email))
	if err != nil {
		entry.WithError(err).Warn("last login: administrator lookup failed")
		return
	}
	if err := s.repo.TouchLastLogin(ctx, a.ID, s.now().UTC()); err != nil {
		entry.WithError(err).Warn("last login: update failed")
	}
}

// EnsureBootstrap guarantees the designated super admin exists and the settings
// singleton has defaults. Safe to call on every start.
func (s *Service) EnsureBootstrap(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !validator.Var(email, "required,email") {
		return ErrInvalidEmail
	}

	existing, err := s.lookup(ctx, email)
	switch {
	case err == nil:
		if !existing.IsSuperAdmin() {
			log.WithField("email", email).Warn("bootstrap email is registered without super_admin role")
		}
	case errors.Is(err, ErrNotFound):
		_, err = s.Add(ctx, AddInput{Email: email, Role: RoleSuperAdmin}, SystemActor)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			return err
		}
		if err == nil {
			log.WithField("email", email).Info("bootstrap super admin created")
		}
	default:
		return err
	}

	if s.settings == nil {
		return nil
	}
	return s.settings.EnsureDefaults(ctx)
}
