package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
)

// Stream pushes the caller's new notifications using Server-Sent Events (SSE)
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	events, closeSub, err := h.svc.Subscribe(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrStreamUnavailable) {
			logging.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("subscribe notifications")
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification stream unavailable"})
		return
	}
	defer closeSub()

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	// initial unread count so the badge is right before any event arrives
	unread, _ := h.svc.UnreadCount(ctx, userID)
	initial, _ := json.Marshal(gin.H{"unread_count": unread})
	fmt.Fprintf(c.Writer, "event: unread\ndata: %s\n\n", initial)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-h.closing:
			fmt.Fprint(c.Writer, "event: shutdown\ndata: {}\n\n")
			flusher.Flush()
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case payload, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
