package http

import (
	"io"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultHeartbeat = 25 * time.Second

// SyncHandler streams store change notifications to clients as
// server-sent events, so open tabs know when to refetch.
type SyncHandler struct {
	notifier  domain.ChangeNotifier
	heartbeat time.Duration
}

func NewSyncHandler(notifier domain.ChangeNotifier, heartbeat time.Duration) *SyncHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &SyncHandler{notifier: notifier, heartbeat: heartbeat}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sync/events", h.Events)
}

// Events godoc
// @Summary      Stream store change notifications
// @Description  Emits a "ready" event once subscribed, then one "change" event per new store version.
// @Tags         sync
// @Produce      text/event-stream
// @Success      200
// @Failure      503
// @Security     BearerAuth
// @Router       /sync/events [get]
func (h *SyncHandler) Events(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events := make(chan domain.ChangeEvent, 16)

	unsubscribe, err := h.notifier.Subscribe(ctx, userID, func(ev domain.ChangeEvent) {
		select {
		case events <- ev:
		default:
			logrus.WithField("user_id", userID).Warn("sse client too slow, dropping change event")
		}
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-events:
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
