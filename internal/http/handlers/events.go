package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/userhub/internal/domain/user"
)

type Subscriptions interface {
	Subscribe() (string, <-chan user.User)
	Unsubscribe(id string)
}

type EventsHandler struct {
	hub       Subscriptions
	heartbeat time.Duration
}

func NewEventsHandler(hub Subscriptions) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		// proxies tend to cut idle streams after ~60s
		heartbeat: 25 * time.Second,
	}
}

// Stream is the persistent event-stream connection for admin clients.
// Each successful registration is pushed as a named "user-registered" event;
// there is no history or replay for late subscribers.
func (h *EventsHandler) Stream(ctx *gin.Context) {
	id, events := h.hub.Subscribe()

	defer h.hub.Unsubscribe(id)

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	// keep-alive comment so the client knows the stream is attached
	_, _ = ctx.Writer.WriteString(": connected\n\n")
	ctx.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)

	defer ticker.Stop()

	clientGone := ctx.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			// transport close is the only cancellation signal
			return

		case u, ok := <-events:
			if !ok {
				// hub shut down
				return
			}

			ctx.SSEvent("user-registered", u)
			ctx.Writer.Flush()

		case <-ticker.C:
			_, _ = ctx.Writer.WriteString(": ping\n\n")
			ctx.Writer.Flush()
		}
	}
}
