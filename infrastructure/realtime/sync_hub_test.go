package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-os/domain/model"
)

func TestHub_ServeStreamsOwnEventsOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewSyncHub()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	ctx, cancel := context.WithCancel(context.Background())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/competitors/stream", nil).WithContext(ctx)
	c.Set("user_id", "u-1")

	done := make(chan struct{})
	go func() {
		hub.Serve(c)
		close(done)
	}()
	require.Eventually(t, func() bool { return hub.subscribers("u-1") == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastSyncEvent(&model.SyncEvent{Type: "competitor_sync", UserID: "u-2", CompetitorID: "other"})
	hub.BroadcastSyncEvent(&model.SyncEvent{Type: "competitor_sync", UserID: "u-1", CompetitorID: "c-1", Status: model.SyncStatusSucceeded})
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, ":ok")
	assert.Contains(t, body, "competitor_sync")
	assert.Contains(t, body, `"competitor_id":"c-1"`)
	assert.NotContains(t, body, `"competitor_id":"other"`)
	assert.Equal(t, 0, hub.subscribers("u-1"))
}

func TestHub_ServeRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/competitors/stream", nil)

	NewSyncHub().Serve(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := NewSyncHub()
	assert.NotPanics(t, func() {
		hub.BroadcastSyncEvent(nil)
		hub.BroadcastSyncEvent(&model.SyncEvent{UserID: "nobody"})
	})
}
