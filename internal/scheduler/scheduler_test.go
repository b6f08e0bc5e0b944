package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racefinder/internal/domain/like"
)

type fakeReconciler struct {
	calls  atomic.Int32
	drifts []like.Drift
	err    error
}

func (f *fakeReconciler) Reconcile(context.Context) ([]like.Drift, error) {
	f.calls.Add(1)
	return f.drifts, f.err
}

func TestAdd_RejectsBadSpecAndDuplicates(t *testing.T) {
	s := New(time.Second)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add("a", "@every 1h", noop))
	assert.Error(t, s.Add("a", "@every 1h", noop))
	assert.Error(t, s.Add("b", "every now and then", noop))

	assert.False(t, s.Next("a").IsZero())
	assert.True(t, s.Next("missing").IsZero())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(time.Second)
	r := &fakeReconciler{drifts: []like.Drift{{EventID: "ev-1", Stored: 4, Actual: 3}}}

	require.NoError(t, s.Add(JobLikeReconcile, "@every 1s", LikeReconcileJob(r)))
	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestLikeReconcileJob_PropagatesError(t *testing.T) {
	r := &fakeReconciler{err: errors.New("db down")}
	err := LikeReconcileJob(r)(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRun_AppliesTimeout(t *testing.T) {
	s := New(20 * time.Millisecond)
	done := make(chan error, 1)

	s.run("slow", func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})
	assert.ErrorIs(t, <-done, context.DeadlineExceeded)
}
