package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"repohub/internal/http/resp"
	"repohub/internal/model"
	"repohub/internal/sse"
)

// Events streams repository changes as server-sent events. The optional
// "repository" query parameter narrows the stream to one record.
func (h *Handler) Events(c *gin.Context) {
	filter := uuid.Nil
	if raw, present := c.GetQuery("repository"); present {
		id, ok := h.parseID(c, raw)
		if !ok {
			return
		}
		filter = id
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		resp.Error(c, http.StatusInternalServerError, resp.CodeInternalError, "streaming unsupported")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	client := &sse.Client{
		RepositoryID: filter,
		Ch:           make(chan model.RepositoryEvent, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	heartbeat := h.cfg.SSEHeartbeat
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Warn("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Warn("write event failed", zap.String("type", event.Type), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event model.RepositoryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
	return err
}
