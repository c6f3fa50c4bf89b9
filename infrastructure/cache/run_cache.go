package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"creator-os/domain/model"
	"creator-os/domain/repository"
)

const runKeyPrefix = "scraper:latest-run:"

// RunCache keeps the latest succeeded run per scraping task. A nil client makes every lookup a miss.
type RunCache struct {
	client *redis.Client
}

func NewRunCache(client *redis.Client) repository.IRunCache {
	return &RunCache{client: client}
}

func (c *RunCache) GetRun(ctx context.Context, actorID string) (*model.ScraperRun, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, runKey(actorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeRun(raw)
}

func (c *RunCache) SetRun(ctx context.Context, actorID string, run *model.ScraperRun, ttl time.Duration) error {
	if c.client == nil || run == nil || ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, runKey(actorID), raw, ttl).Err()
}

func runKey(actorID string) string { return runKeyPrefix + actorID }

func decodeRun(raw []byte) (*model.ScraperRun, error) {
	var run model.ScraperRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, err
	}
	if run.ID == "" || run.Status != model.RunStatusSucceeded {
		return nil, nil
	}
	return &run, nil
}
