package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/domain"
	"github.com/socialchat/backend/gateway"
	"github.com/socialchat/backend/http/middleware"
)

const messagePageLimit = 50

type Chat struct {
	gateway  *gateway.Gateway
	messages domain.MessageRepository
	rooms    *domain.RoomResolver
}

func NewChat(gw *gateway.Gateway, messages domain.MessageRepository, rooms *domain.RoomResolver) *Chat {
	return &Chat{
		gateway:  gw,
		messages: messages,
		rooms:    rooms,
	}
}

// WebSocket upgrades the chat connection. Handshake failures are reported on
// the socket itself with a close code; by the time Open returns an error the
// client has already been told why.
func (h *Chat) WebSocket(c *gin.Context) {
	conn, err := h.gateway.Open(c.Writer, c.Request, true)
	if err != nil {
		log.Printf("err: open chat connection: %s", err)
		return
	}

	h.gateway.Serve(c.Request.Context(), conn)
}

func (h *Chat) ListMessages(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var params domain.ListMessageRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Resolve(userID, domain.UserID(params.To))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPair) || errors.Is(err, domain.ErrNonNumericID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		abortWithInternalError(c, err)
		return
	}

	messages, err := h.messages.List(c.Request.Context(), room, params.BeforeID, messagePageLimit)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
