package route

import (
	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/http/handler"
)

func chatRouter(r gin.IRouter, requireAuth gin.HandlerFunc, h *handler.Chat) {
	chat := r.Group("/chat")

	chat.GET("/ws", h.WebSocket)
	chat.GET("/messages", requireAuth, h.ListMessages)
}
