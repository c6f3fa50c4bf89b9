// Package archive keeps raw scraper datasets in MongoDB for later inspection and replays.
package archive

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"creator-os/domain/model"
	"creator-os/domain/repository"
)

const (
	defaultDatabase = "creator_os"
	collectionName  = "scraper_datasets"
)

// NewMongoClient connects and pings MongoDB at uri.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is not configured")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

type DatasetArchive struct {
	client   *mongo.Client
	database string
	now      func() time.Time
}

// NewDatasetArchive stores into database (default "creator_os"). A nil client disables archiving.
func NewDatasetArchive(client *mongo.Client, database string) repository.IDatasetArchive {
	if database == "" {
		database = defaultDatabase
	}
	return &DatasetArchive{client: client, database: database, now: func() time.Time { return time.Now().UTC() }}
}

func (a *DatasetArchive) Save(ctx context.Context, run *model.ScraperRun, handle string, items []model.DatasetItem) error {
	if a.client == nil || run == nil {
		return nil
	}
	_, err := a.client.Database(a.database).Collection(collectionName).InsertOne(ctx, a.document(run, handle, items))
	return err
}

func (a *DatasetArchive) document(run *model.ScraperRun, handle string, items []model.DatasetItem) bson.M {
	if items == nil {
		items = []model.DatasetItem{}
	}
	return bson.M{
		"run_id":     run.ID,
		"actor_id":   run.ActID,
		"dataset_id": run.DefaultDatasetID,
		"handle":     handle,
		"item_count": len(items),
		"items":      items,
		"fetched_at": a.now(),
	}
}
