package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"creator-os/domain/model"
)

func TestSave_NilClientIsNoop(t *testing.T) {
	a := NewDatasetArchive(nil, "")
	assert.NoError(t, a.Save(context.Background(), &model.ScraperRun{ID: "r"}, "jane", nil))
}

func TestDocument(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := &DatasetArchive{database: defaultDatabase, now: func() time.Time { return fixed }}
	run := &model.ScraperRun{ID: "r-1", ActID: "act", DefaultDatasetID: "ds-1"}

	doc := a.document(run, "jane_doe", []model.DatasetItem{{"id": "1"}, {"id": "2"}})
	assert.Equal(t, "r-1", doc["run_id"])
	assert.Equal(t, "ds-1", doc["dataset_id"])
	assert.Equal(t, "jane_doe", doc["handle"])
	assert.Equal(t, 2, doc["item_count"])
	assert.Equal(t, fixed, doc["fetched_at"])

	empty := a.document(run, "jane_doe", nil)
	assert.Equal(t, 0, empty["item_count"])
	assert.NotNil(t, empty["items"])
}

func TestNewMongoClient_RequiresURI(t *testing.T) {
	_, err := NewMongoClient(context.Background(), "")
	assert.Error(t, err)
}
