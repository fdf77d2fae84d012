package handler

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/gateway"
)

// Presence serves the notification websocket. It carries no peer parameter:
// the connection only joins the caller's own user group and receives friend
// and status events.
type Presence struct {
	gateway *gateway.Gateway
}

func NewPresence(gw *gateway.Gateway) *Presence {
	return &Presence{
		gateway: gw,
	}
}

func (h *Presence) WebSocket(c *gin.Context) {
	conn, err := h.gateway.Open(c.Writer, c.Request, false)
	if err != nil {
		log.Printf("err: open presence connection: %s", err)
		return
	}

	h.gateway.Serve(c.Request.Context(), conn)
}
