package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/domain"
	"github.com/socialchat/backend/http/middleware"
)

type Friend struct {
	actions  domain.FriendActionsUseCase
	profiles domain.ProfileRepository
}

func NewFriend(actions domain.FriendActionsUseCase, profiles domain.ProfileRepository) *Friend {
	return &Friend{
		actions:  actions,
		profiles: profiles,
	}
}

type friendTargetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *Friend) Request(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var body friendTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.actions.Request(c.Request.Context(), userID, domain.UserID(body.UserID))
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "request sent"})
	case errors.Is(err, domain.ErrInvalidPair),
		errors.Is(err, domain.ErrAlreadyFriends),
		errors.Is(err, domain.ErrRequestPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		abortWithInternalError(c, err)
	}
}

type incomingRequestView struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (h *Friend) Incoming(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	fromIDs, err := h.actions.Incoming(c.Request.Context(), userID)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	requests := make([]incomingRequestView, 0, len(fromIDs))
	for _, fromID := range fromIDs {
		profile, err := h.profiles.Get(c.Request.Context(), fromID)
		if err != nil {
			log.Printf("err: load requester profile %s: %s", fromID, err)
			continue
		}

		requests = append(requests, incomingRequestView{
			UserID:      string(fromID),
			DisplayName: profile.DisplayName,
			AvatarURL:   profile.AvatarURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *Friend) Accept(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var body friendTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.actions.Accept(c.Request.Context(), userID, domain.UserID(body.UserID))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "request accepted"})
	case errors.Is(err, domain.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		abortWithInternalError(c, err)
	}
}

func (h *Friend) Decline(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var body friendTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.actions.Decline(c.Request.Context(), userID, domain.UserID(body.UserID))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "request declined"})
	case errors.Is(err, domain.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		abortWithInternalError(c, err)
	}
}

func (h *Friend) Remove(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var body friendTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.actions.Remove(c.Request.Context(), userID, domain.UserID(body.UserID))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "friend removed"})
	case errors.Is(err, domain.ErrFriendshipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		abortWithInternalError(c, err)
	}
}
