package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/domain"
	"github.com/socialchat/backend/http/middleware"
)

const searchResultLimit = 20

type Profile struct {
	profiles    domain.ProfileRepository
	friendships domain.FriendshipRepository
	presence    domain.PresenceRepository
}

func NewProfile(
	profiles domain.ProfileRepository,
	friendships domain.FriendshipRepository,
	presence domain.PresenceRepository,
) *Profile {
	return &Profile{
		profiles:    profiles,
		friendships: friendships,
		presence:    presence,
	}
}

type friendView struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Online      bool   `json:"online"`
}

// Get returns the caller's own profile together with the friend list and each
// friend's live online flag.
func (h *Profile) Get(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		abortWithInternalError(c, err)
		return
	}

	friendIDs, err := h.friendships.ListFriendIDs(c.Request.Context(), userID)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	friends := make([]friendView, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		fp, err := h.profiles.Get(c.Request.Context(), friendID)
		if err != nil {
			log.Printf("err: load friend profile %s: %s", friendID, err)
			continue
		}

		online, err := h.presence.IsOnline(c.Request.Context(), friendID)
		if err != nil {
			log.Printf("err: read presence for %s: %s", friendID, err)
		}

		friends = append(friends, friendView{
			UserID:      string(friendID),
			DisplayName: fp.DisplayName,
			AvatarURL:   fp.AvatarURL,
			Online:      online,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"friends": friends,
	})
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=64"`
	AvatarURL   string `json:"avatar_url"`
}

func (h *Profile) Update(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var body updateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.profiles.FindByDisplayName(c.Request.Context(), body.DisplayName)
	if err == nil && existing.UserID != userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNameTaken.Error()})
		return
	} else if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		abortWithInternalError(c, err)
		return
	}

	profile := &domain.Profile{
		UserID:      userID,
		DisplayName: body.DisplayName,
		AvatarURL:   body.AvatarURL,
	}
	if err := h.profiles.Update(c.Request.Context(), profile); err != nil {
		abortWithInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *Profile) Search(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter: q"})
		return
	}

	results, err := h.profiles.Search(c.Request.Context(), query, searchResultLimit)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	filtered := make([]domain.Profile, 0, len(results))
	for _, p := range results {
		if p.UserID == userID {
			continue
		}
		filtered = append(filtered, p)
	}

	c.JSON(http.StatusOK, gin.H{"results": filtered})
}

// DeleteAvatar clears the avatar reference; the profile keeps its display
// name.
func (h *Profile) DeleteAvatar(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		abortWithInternalError(c, err)
		return
	}

	profile.AvatarURL = ""
	if err := h.profiles.Update(c.Request.Context(), profile); err != nil {
		abortWithInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
