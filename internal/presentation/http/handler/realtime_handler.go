package handler

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
)

const defaultHeartbeat = 25 * time.Second

// RealtimeHandler streams row changes to the app as Server-Sent Events
type RealtimeHandler struct {
	hub       *realtime.Hub
	heartbeat time.Duration
}

// NewRealtimeHandler creates a handler that pings idle streams every
// heartbeat
func NewRealtimeHandler(hub *realtime.Hub, heartbeat time.Duration) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &RealtimeHandler{hub: hub, heartbeat: heartbeat}
}

// Stream sends each change as a "change" event until the client goes
// away or the hub is closed on shutdown. ?tables=products,customers
// narrows the stream.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	var tables []string
	for _, t := range strings.Split(c.Query("tables"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}

	sub := h.hub.Subscribe(tables...)
	defer h.hub.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"tables": tables})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case change, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("change", change)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
