package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/infrastructure/realtime"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

const (
	// SSEKeepaliveInterval is the interval for sending keepalive comments.
	SSEKeepaliveInterval = 30 * time.Second

	SSEContentType = "text/event-stream"
)

// StreamHandler serves the realtime hint stream. Events only tell the client
// to poll now; the feed endpoints stay authoritative.
type StreamHandler struct {
	registry  streamRegistry
	keepAlive time.Duration
	logger    logger.Interface
}

func NewStreamHandler(registry streamRegistry, logger logger.Interface) *StreamHandler {
	return &StreamHandler{
		registry:  registry,
		keepAlive: SSEKeepaliveInterval,
		logger:    logger,
	}
}

// Stream godoc
// @Summary Realtime notification hints
// @Description Server-sent events announcing new deliveries and read-state changes for the caller
// @Security Bearer
// @Tags notifications
// @Produce text/event-stream
// @Param access_token query string false "Access token for clients that cannot set headers"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 409 {object} utils.APIResponse "Too many stream connections"
// @Router /notifications/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	conn, err := h.registry.Subscribe(realtime.UserTopic(userID), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer h.registry.Unsubscribe(conn.ID)

	c.Header("Content-Type", SSEContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if _, err := c.Writer.WriteString(": connected\n\n"); err != nil {
		h.logger.Warnw("stream initial write error", "conn_id", conn.ID, "error", err)
		return
	}
	c.Writer.Flush()

	h.runEventLoop(c, conn)
}

func (h *StreamHandler) runEventLoop(c *gin.Context, conn *realtime.Conn) {
	keepAliveTicker := time.NewTicker(h.keepAlive)
	defer keepAliveTicker.Stop()

	ctx := c.Request.Context()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debugw("stream closed by client", "conn_id", conn.ID, "user_id", conn.UserID)
			return

		case data, ok := <-conn.Send:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(data); err != nil {
				h.logger.Warnw("stream write error", "conn_id", conn.ID, "error", err)
				return
			}
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				h.logger.Warnw("stream keepalive error", "conn_id", conn.ID, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}

