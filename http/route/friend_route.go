package route

import (
	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/http/handler"
)

func friendRouter(r gin.IRouter, requireAuth gin.HandlerFunc, h *handler.Friend) {
	friend := r.Group("/friends", requireAuth)

	friend.POST("/request", h.Request)
	friend.GET("/requests", h.Incoming)
	friend.POST("/accept", h.Accept)
	friend.POST("/decline", h.Decline)
	friend.POST("/remove", h.Remove)
}
