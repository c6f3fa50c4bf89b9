package usecase

import (
	"context"
	"fmt"
	"time"

	"creator-os/domain/model"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
)

// RunAcquirer finds a usable dataset for a scraping task, reusing past succeeded runs
// before paying for a new one.
type RunAcquirer struct {
	scraper  repository.IScraper
	cache    repository.IRunCache // optional
	cacheTTL time.Duration
}

func NewRunAcquirer(scraper repository.IScraper) *RunAcquirer {
	return &RunAcquirer{scraper: scraper}
}

// WithCache enables the run cache (fluent). A zero ttl leaves it disabled.
func (a *RunAcquirer) WithCache(cache repository.IRunCache, ttl time.Duration) *RunAcquirer {
	if ttl > 0 {
		a.cache = cache
		a.cacheTTL = ttl
	}
	return a
}

// Acquire returns the latest succeeded run of actorID. When none exists it starts one
// with input, waits for completion and re-lists to confirm.
func (a *RunAcquirer) Acquire(ctx context.Context, actorID string, input interface{}) (*model.ScraperRun, error) {
	if actorID == "" {
		return nil, fmt.Errorf("scraper actor id is not configured")
	}
	lg := logger.GetLogger().WithField("actor_id", actorID)

	if a.cache != nil {
		if run, err := a.cache.GetRun(ctx, actorID); err != nil {
			lg.WithField("error", err).Warn("run cache lookup failed")
		} else if run != nil {
			return run, nil
		}
	}

	run, err := a.scraper.LatestRun(ctx, actorID, model.RunStatusSucceeded)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if run == nil {
		lg.Info("no succeeded run found, starting a new one")
		called, err := a.scraper.CallActor(ctx, actorID, input)
		if err != nil {
			return nil, fmt.Errorf("failed to call actor: %w", err)
		}
		if called.Status != model.RunStatusSucceeded {
			return nil, fmt.Errorf("actor run %s finished with status %s", called.ID, called.Status)
		}
		run, err = a.scraper.LatestRun(ctx, actorID, model.RunStatusSucceeded)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		if run == nil {
			run = called
		}
	}

	if a.cache != nil {
		if err := a.cache.SetRun(ctx, actorID, run, a.cacheTTL); err != nil {
			lg.WithField("error", err).Warn("run cache store failed")
		}
	}
	lg.WithField("run_id", run.ID).WithField("dataset_id", run.DefaultDatasetID).Debug("run acquired")
	return run, nil
}
