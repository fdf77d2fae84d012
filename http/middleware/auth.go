package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socialchat/backend/domain"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	userIDContextKey    = "userID"
)

// NewAuth validates the bearer token on every request and stores the
// resolved user id in the gin context.
func NewAuth(resolver domain.AuthResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrMissingToken.Error(),
			})
			return
		}

		userID, err := resolver.ResolveToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(userIDContextKey, string(userID))
		c.Next()
	}
}

func GetUserIDFromContext(c *gin.Context) domain.UserID {
	return domain.UserID(c.GetString(userIDContextKey))
}
