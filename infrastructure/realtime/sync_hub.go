package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"creator-os/domain/model"
)

const syncEventName = "competitor_sync"

// Hub maintains per-user subscribers listening for competitor sync events.
type Hub struct {
	mu        sync.RWMutex
	users     map[string]map[chan model.SyncEvent]struct{}
	heartbeat time.Duration
}

func NewSyncHub() *Hub {
	return &Hub{users: make(map[string]map[chan model.SyncEvent]struct{}), heartbeat: 25 * time.Second}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.SyncEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case evt := <-ch:
			c.SSEvent(syncEventName, evt)
			c.Writer.Flush()
		}
	}
}

func (h *Hub) addSubscriber(userID string, ch chan model.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan model.SyncEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan model.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

func (h *Hub) subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// BroadcastSyncEvent delivers evt to every stream of the owning user. Slow subscribers drop events.
func (h *Hub) BroadcastSyncEvent(evt *model.SyncEvent) {
	if evt == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[evt.UserID] {
		select { // non-blocking
		case ch <- *evt:
		default:
		}
	}
}
