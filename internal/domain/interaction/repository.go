package interaction

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"racefinder/internal/pkg/apperr"
)

type Repository interface {
	Upsert(ctx context.Context, in *Interaction) error
	Get(ctx context.Context, userID, eventID string) (*Interaction, error)
	ListByUser(ctx context.Context, userID string) ([]Interaction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert replaces every column except created_at.
func (r *repository) Upsert(ctx context.Context, in *Interaction) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"liked", "attended", "interested", "rating", "notes", "completed_date", "updated_at",
		}),
	}).Create(in).Error
	return apperr.Storage(err)
}

func (r *repository) Get(ctx context.Context, userID, eventID string) (*Interaction, error) {
	var in Interaction
	if err := r.db.WithContext(ctx).First(&in, "user_id = ? AND event_id = ?", userID, eventID).Error; err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, apperr.Storage(err)
	}
	return &in, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Interaction, error) {
	items := []Interaction{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&items).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return items, nil
}
