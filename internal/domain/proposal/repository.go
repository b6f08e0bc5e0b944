package proposal

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"racefinder/internal/domain/event"
	"racefinder/internal/pkg/apperr"
)

type Filter struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Proposal) error
	GetByID(ctx context.Context, id string) (*Proposal, error)
	List(ctx context.Context, f Filter) ([]Proposal, int64, error)
	// Mutate loads the proposal under a row lock and saves it when fn reports a change.
	Mutate(ctx context.Context, id string, fn func(p *Proposal) (bool, error)) (*Proposal, error)
	// Publish converts an approved proposal into the event built by newEvent,
	// or returns the already linked event with created=false.
	Publish(ctx context.Context, id string, newEvent func(p *Proposal) *event.Event, stamp func(p *Proposal, e *event.Event)) (*event.Event, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Proposal) error {
	return apperr.Storage(r.db.WithContext(ctx).Create(p).Error)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Proposal, error) {
	return load(r.db.WithContext(ctx), id, false)
}

func load(db *gorm.DB, id string, lock bool) (*Proposal, error) {
	if lock {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p Proposal
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, apperr.Storage(err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Proposal, int64, error) {
	var items []Proposal
	var total int64

	db := r.db.WithContext(ctx).Model(&Proposal{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	if err := db.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&items).Error; err != nil {
		return nil, 0, apperr.Storage(err)
	}

	return items, total, nil
}

func (r *repository) Mutate(ctx context.Context, id string, fn func(p *Proposal) (bool, error)) (*Proposal, error) {
	var out *Proposal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := load(tx, id, true)
		if err != nil {
			return err
		}

		changed, err := fn(p)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Save(p).Error; err != nil {
				return apperr.Storage(err)
			}
		}
		out = p
		return nil
	})
	return out, err
}

func (r *repository) Publish(
	ctx context.Context,
	id string,
	newEvent func(p *Proposal) *event.Event,
	stamp func(p *Proposal, e *event.Event),
) (*event.Event, bool, error) {
	var (
		out     *event.Event
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := load(tx, id, true)
		if err != nil {
			return err
		}

		if p.IsPublished() {
			var existing event.Event
			err := tx.First(&existing, "id = ?", *p.PublishedEventID).Error
			if err == nil {
				out = &existing
				return nil
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// the event was deleted after publishing; the conversion stays spent
				return ErrAlreadyPublished
			}
			return apperr.Storage(err)
		}

		if p.Status != StatusApproved {
			return ErrNotApproved
		}

		e := newEvent(p)
		if err := tx.Create(e).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return ErrAlreadyPublished
			}
			return apperr.Storage(err)
		}

		stamp(p, e)
		if err := tx.Save(p).Error; err != nil {
			return apperr.Storage(err)
		}

		out = e
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}
