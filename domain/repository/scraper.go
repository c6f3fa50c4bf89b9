package repository

import (
	"context"
	"time"

	"creator-os/domain/model"
)

// IScraper is the task/run/dataset API of the external scraping platform.
type IScraper interface {
	// LatestRun returns the most recent run of actorID with the given status, or nil when none exists.
	LatestRun(ctx context.Context, actorID, status string) (*model.ScraperRun, error)
	// CallActor starts a run with input and blocks until it reaches a terminal status.
	CallActor(ctx context.Context, actorID string, input interface{}) (*model.ScraperRun, error)
	DatasetItems(ctx context.Context, datasetID string) ([]model.DatasetItem, error)
}

// IRunCache memoizes the latest succeeded run per task.
type IRunCache interface {
	GetRun(ctx context.Context, actorID string) (*model.ScraperRun, error)
	SetRun(ctx context.Context, actorID string, run *model.ScraperRun, ttl time.Duration) error
}

// IDatasetArchive keeps the raw dataset items fetched for a sync.
type IDatasetArchive interface {
	Save(ctx context.Context, run *model.ScraperRun, handle string, items []model.DatasetItem) error
}

// ISyncPublisher forwards sync events to an asynchronous consumer.
type ISyncPublisher interface {
	PublishSyncEvent(ctx context.Context, event *model.SyncEvent) error
}

// IIdentityProvider is the admin API of the hosted identity service.
type IIdentityProvider interface {
	InviteUserByEmail(ctx context.Context, email, redirectTo string) (*model.InvitedUser, error)
}
