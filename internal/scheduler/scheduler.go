package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/trailerseerr/internal/service/tracker"
	"github.com/trailerseerr/pkg/logger"
)

// Poller is the job the scheduler runs on every tick.
type Poller interface {
	Poll(ctx context.Context) ([]tracker.PollResult, error)
}

type Scheduler struct {
	cron    *cron.Cron
	poller  Poller
	mu      sync.Mutex
	running bool
	jobMu   sync.Mutex
}

func New(poller Poller) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		poller: poller,
	}
}

// Start begins the scheduled job
func (s *Scheduler) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	cronWithSeconds := "0 " + cronExpr

	_, err := s.cron.AddFunc(cronWithSeconds, func() {
		s.runJob()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	logger.Infof("⏰ Scheduler: %s", cronExpr)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
}

// RunNow triggers a poll immediately
func (s *Scheduler) RunNow() {
	go s.runJob()
}

// runJob skips the tick when the previous poll is still in flight.
func (s *Scheduler) runJob() {
	if s.poller == nil {
		return
	}
	if !s.jobMu.TryLock() {
		logger.Debug("[scheduler] Previous poll still running, skipping")
		return
	}
	defer s.jobMu.Unlock()

	if _, err := s.poller.Poll(context.Background()); err != nil {
		logger.Errorf("❌ Tracker poll failed: %v", err)
	}
}

// IsRunning returns whether the scheduler is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
