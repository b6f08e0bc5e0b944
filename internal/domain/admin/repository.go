package admin

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"racefinder/internal/pkg/apperr"
)

type Repository interface {
	Create(ctx context.Context, a *Administrator) error
	GetByID(ctx context.Context, id string) (*Administrator, error)
	GetByEmail(ctx context.Context, email string) (*Administrator, error)
	List(ctx context.Context, limit, offset int) ([]Administrator, int64, error)
	DeleteAdmin(ctx context.Context, id string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Administrator) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return apperr.Storage(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Administrator, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail matches case-insensitively; legacy rows may keep the original
// casing in the email column.
func (r *repository) GetByEmail(ctx context.Context, email string) (*Administrator, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *repository) first(ctx context.Context, query string, arg string) (*Administrator, error) {
	var a Administrator
	if err := r.db.WithContext(ctx).First(&a, query, arg).Error; err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, apperr.Storage(err)
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Administrator, int64, error) {
	var admins []Administrator
	var total int64

	db := r.db.WithContext(ctx).Model(&Administrator{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	if err := db.Order("added_at ASC").Limit(limit).Offset(offset).Find(&admins).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return admins, total, nil
}

// DeleteAdmin hard-deletes a role=admin record. The role predicate keeps a
// super_admin row safe even if it was swapped in after the caller's check.
func (r *repository) DeleteAdmin(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND role = ?", id, RoleAdmin).Delete(&Administrator{})
	if res.Error != nil {
		return false, apperr.Storage(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&Administrator{}).Where("id = ?", id).Update("last_login_at", at).Error
	return apperr.Storage(err)
}
