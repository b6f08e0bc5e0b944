package like

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"racefinder/internal/domain/event"
	"racefinder/internal/pkg/apperr"
)

type Repository interface {
	Toggle(ctx context.Context, eventID, userID string) (Result, error)
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	Counter(ctx context.Context, eventID string) (int64, error)
	EventIDs(ctx context.Context, userID string) ([]string, error)
	Reconcile(ctx context.Context) ([]Drift, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Toggle flips the (user, event) record and moves the event counter by the
// same amount in one transaction. The event row is locked first, so toggles
// on one event serialise on PostgreSQL.
func (r *repository) Toggle(ctx context.Context, eventID, userID string) (Result, error) {
	var res Result
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev event.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "likes_count").
			Take(&ev, "id = ?", eventID).Error
		if err != nil {
			if apperr.IsNotFound(err) {
				return ErrEventNotFound
			}
			return apperr.Storage(err)
		}

		var existing Record
		err = tx.Take(&existing, "user_id = ? AND event_id = ?", userID, eventID).Error

		var delta int64
		switch {
		case err == nil:
			del := tx.Delete(&Record{}, "user_id = ? AND event_id = ?", userID, eventID)
			if del.Error != nil {
				return apperr.Storage(del.Error)
			}
			delta = -del.RowsAffected
			res.Liked = false
		case apperr.IsNotFound(err):
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&Record{UserID: userID, EventID: eventID})
			if ins.Error != nil {
				return apperr.Storage(ins.Error)
			}
			delta = ins.RowsAffected
			res.Liked = true
		default:
			return apperr.Storage(err)
		}

		if delta != 0 {
			upd := tx.Model(&event.Event{}).Where("id = ?", eventID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta))
			if upd.Error != nil {
				return apperr.Storage(upd.Error)
			}
		}
		res.TotalLikes = ev.LikesCount + delta
		return nil
	})
	return res, err
}

func (r *repository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Record{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&n).Error
	if err != nil {
		return false, apperr.Storage(err)
	}
	return n > 0, nil
}

func (r *repository) Counter(ctx context.Context, eventID string) (int64, error) {
	var ev event.Event
	err := r.db.WithContext(ctx).Select("id", "likes_count").Take(&ev, "id = ?", eventID).Error
	if err != nil {
		if apperr.IsNotFound(err) {
			return 0, ErrEventNotFound
		}
		return 0, apperr.Storage(err)
	}
	return ev.LikesCount, nil
}

func (r *repository) EventIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&Record{}).
		Where("user_id = ?", userID).
		Order("event_id ASC").
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return ids, nil
}

// Reconcile recounts like records for every event and rewrites counters that
// drifted. It is a full scan; the rewrite recounts in the UPDATE itself so a
// toggle landing between scan and write is not lost.
func (r *repository) Reconcile(ctx context.Context) ([]Drift, error) {
	var drifts []Drift
	err := r.db.WithContext(ctx).
		Table("events AS e").
		Select("e.id AS event_id, e.likes_count AS stored, COUNT(l.user_id) AS actual").
		Joins("LEFT JOIN "+Table+" AS l ON l.event_id = e.id").
		Group("e.id, e.likes_count").
		Having("e.likes_count <> COUNT(l.user_id)").
		Scan(&drifts).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	for _, d := range drifts {
		err := r.db.WithContext(ctx).Model(&event.Event{}).
			Where("id = ?", d.EventID).
			UpdateColumn("likes_count", gorm.Expr("(SELECT COUNT(*) FROM "+Table+" WHERE "+Table+".event_id = events.id)")).Error
		if err != nil {
			return nil, apperr.Storage(err)
		}
	}
	return drifts, nil
}
