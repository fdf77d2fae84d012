package route

import (
	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/http/handler"
)

func presenceRouter(r gin.IRouter, h *handler.Presence) {
	r.GET("/presence/ws", h.WebSocket)
}
