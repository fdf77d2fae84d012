package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth     *Auth
	Profile  *Profile
	Friend   *Friend
	Chat     *Chat
	Presence *Presence
}

func abortWithInternalError(c *gin.Context, err error) {
	log.Printf("err: %s", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
	})
}
