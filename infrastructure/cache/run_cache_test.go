package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-os/domain/model"
)

func TestRunCache_NilClientIsMiss(t *testing.T) {
	c := NewRunCache(nil)
	run, err := c.GetRun(context.Background(), "actor")
	require.NoError(t, err)
	assert.Nil(t, run)
	assert.NoError(t, c.SetRun(context.Background(), "actor", &model.ScraperRun{ID: "r"}, time.Minute))
}

func TestRunKey(t *testing.T) {
	assert.Equal(t, "scraper:latest-run:apify~instagram-post-scraper", runKey("apify~instagram-post-scraper"))
}

func TestDecodeRun_IgnoresUnusableEntries(t *testing.T) {
	ok, _ := json.Marshal(model.ScraperRun{ID: "r1", Status: model.RunStatusSucceeded, DefaultDatasetID: "ds"})
	run, err := decodeRun(ok)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "ds", run.DefaultDatasetID)

	failed, _ := json.Marshal(model.ScraperRun{ID: "r2", Status: model.RunStatusFailed})
	run, err = decodeRun(failed)
	require.NoError(t, err)
	assert.Nil(t, run)

	_, err = decodeRun([]byte("not json"))
	assert.Error(t, err)
}
