package route

import (
	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/http/handler"
)

func authRouter(r gin.IRouter, requireAuth gin.HandlerFunc, h *handler.Auth) {
	auth := r.Group("/auth")

	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", requireAuth, h.Logout)
}
