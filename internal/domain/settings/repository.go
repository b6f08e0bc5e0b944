package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"racefinder/internal/pkg/apperr"
)

type Repository interface {
	GetOrCreate(ctx context.Context, defaults SystemSettings) (*SystemSettings, error)
	Update(ctx context.Context, defaults SystemSettings, fn func(*SystemSettings)) (*SystemSettings, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, defaults SystemSettings) (*SystemSettings, error) {
	s, err := getOrCreate(r.db.WithContext(ctx), defaults, false)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, defaults SystemSettings, fn func(*SystemSettings)) (*SystemSettings, error) {
	var out *SystemSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := getOrCreate(tx, defaults, true)
		if err != nil {
			return err
		}
		fn(s)
		if err := tx.Save(s).Error; err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

// getOrCreate reads the singleton and inserts the defaults when it is
// missing. A concurrent creator is absorbed by ON CONFLICT DO NOTHING.
func getOrCreate(db *gorm.DB, defaults SystemSettings, lock bool) (*SystemSettings, error) {
	s, err := first(db, lock)
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return s, err
	}

	defaults.ID = SingletonID
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}
	return first(db, lock)
}

func first(db *gorm.DB, lock bool) (*SystemSettings, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s SystemSettings
	if err := db.First(&s, "id = ?", SingletonID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
