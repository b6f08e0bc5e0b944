package event

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"racefinder/internal/pkg/apperr"
)

type Filter struct {
	Status   Status
	Category string
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, f Filter) ([]Event, int64, error)
	Update(ctx context.Context, id string, updates map[string]any) (*Event, error)
	SetStatus(ctx context.Context, id string, status Status) (*Event, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	// dependents are tables whose rows reference events.id through an
	// event_id column; Delete removes them in the same transaction.
	dependents []string
}

func NewRepository(db *gorm.DB, dependents ...string) Repository {
	return &repository{db: db, dependents: dependents}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return apperr.Storage(r.db.WithContext(ctx).Create(e).Error)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	return getByID(r.db.WithContext(ctx), id)
}

func getByID(db *gorm.DB, id string) (*Event, error) {
	var e Event
	if err := db.First(&e, "id = ?", id).Error; err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, apperr.Storage(err)
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Event, int64, error) {
	var events []Event
	var total int64

	db := r.db.WithContext(ctx).Model(&Event{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	if err := db.Order("event_date ASC, id ASC").Limit(f.Limit).Offset(f.Offset).Find(&events).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return events, total, nil
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]any) (*Event, error) {
	var out *Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Event{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return apperr.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		e, err := getByID(tx, id)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// SetStatus writes the status in a single statement; the draft projection
// derives from it so the two cannot diverge.
func (r *repository) SetStatus(ctx context.Context, id string, status Status) (*Event, error) {
	return r.Update(ctx, id, map[string]any{"status": status})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range r.dependents {
			if err := tx.Exec("DELETE FROM ? WHERE event_id = ?", clause.Table{Name: table}, id).Error; err != nil {
				return apperr.Storage(err)
			}
		}

		res := tx.Where("id = ?", id).Delete(&Event{})
		if res.Error != nil {
			return apperr.Storage(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
