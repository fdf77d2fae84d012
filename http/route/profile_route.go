package route

import (
	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/http/handler"
)

func profileRouter(r gin.IRouter, requireAuth gin.HandlerFunc, h *handler.Profile) {
	profile := r.Group("/profile", requireAuth)

	profile.GET("", h.Get)
	profile.PUT("", h.Update)
	profile.GET("/search", h.Search)
	profile.DELETE("/avatar", h.DeleteAvatar)
}
