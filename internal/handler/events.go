package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pairplay/backend/internal/hub"
)

// streamTopic relays every event published on topic to the client as
// Server-Sent Events until the client goes away.
func streamTopic(c *gin.Context, h *hub.Hub, topic string) {
	client := hub.NewClient()
	h.Subscribe(topic, client)
	defer h.Unsubscribe(topic, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("message", string(msg))
			c.Writer.Flush()
		}
	}
}
