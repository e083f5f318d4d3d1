package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	realtimeEventReady     = "ready"
	realtimeEventHeartbeat = "heartbeat"
	realtimeSource         = "jigong"
)

// handleEvents streams bus messages as server-sent events. ?topic= narrows the stream to one
// topic; the default is every topic. A ready event is sent once the subscription is live.
func (h *httpHandler) handleEvents(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		topic = events.TopicAll
	}

	ctx := c.Request.Context()
	stream, cleanup := h.bus.Subscribe(ctx, topic)
	defer cleanup()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	h.logger.Debug("event stream opened", zap.String("topic", topic))
	c.SSEvent(realtimeEventReady, gin.H{"source": realtimeSource, "topic": topic})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case message, ok := <-stream:
			if !ok {
				return false
			}
			c.SSEvent(message.Topic, message)
			return true
		case now := <-ticker.C:
			c.SSEvent(realtimeEventHeartbeat, gin.H{"source": realtimeSource, "timestamp": now.UTC()})
			return true
		}
	})
	h.logger.Debug("event stream closed", zap.String("topic", topic))
}
