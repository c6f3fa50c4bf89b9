// Package scheduler runs the periodic competitor refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"creator-os/infrastructure/logger"
)

// Refresher re-syncs every active competitor.
type Refresher interface {
	RefreshActive(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// New schedules refresher on spec (standard five field cron). Overlapping runs are skipped.
func New(spec string, refresher Refresher, timeout time.Duration) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to add refresh job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.GetLogger().Info("Competitor refresh scheduled")
}

// Stop cancels a running refresh and waits for it to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	start := time.Now()
	n, err := s.refresher.RefreshActive(ctx)
	lg := logger.GetLogger().WithField("refreshed", n).WithField("duration", time.Since(start).String())
	if err != nil {
		lg.WithField("error", err).Error("Competitor refresh failed")
		return
	}
	lg.Info("Competitor refresh completed")
}
