package scheduler

import (
	"context"

	log "github.com/sirupsen/logrus"

	"racefinder/internal/domain/like"
)

const JobLikeReconcile = "like_reconcile"

// Reconciler repairs stored like counters and reports what it fixed.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]like.Drift, error)
}

func LikeReconcileJob(r Reconciler) Job {
	return func(ctx context.Context) error {
		drifts, err := r.Reconcile(ctx)
		if err != nil {
			return err
		}
		log.WithField("repaired", len(drifts)).Info("like counters reconciled")
		return nil
	}
}
