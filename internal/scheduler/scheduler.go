// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Job is one unit of maintenance work. It receives a context bounded by the
// scheduler's job timeout.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration

	mu    sync.Mutex
	names map[string]cron.EntryID
}

func New(jobTimeout time.Duration) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: jobTimeout,
		names:   make(map[string]cron.EntryID),
	}
}

// Add registers job under name. schedule accepts standard five-field cron
// expressions and descriptors such as "@every 6h".
func (s *Scheduler) Add(name, schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; ok {
		return fmt.Errorf("scheduler: job %q already registered", name)
	}
	id, err := s.cron.AddFunc(schedule, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("scheduler: job %q: %w", name, err)
	}
	s.names[name] = id
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	entry := log.WithField("job", name)
	if err := job(ctx); err != nil {
		entry.WithError(err).Error("scheduled job failed")
		return
	}
	entry.WithField("duration", time.Since(start).String()).Debug("scheduled job finished")
}

// Next returns the next activation time of name, or zero if unknown.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.names[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.WithField("jobs", len(s.cron.Entries())).Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
