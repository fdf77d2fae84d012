package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/socialchat/backend/domain"
	"github.com/socialchat/backend/http/middleware"
)

// TokenIssuer is the write half of token handling; the read half is
// domain.AuthResolver, used by the middleware and the gateway.
type TokenIssuer interface {
	GenerateToken(userID domain.UserID) (string, error)
}

type Auth struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	tokens   TokenIssuer
	uid      domain.UIDGenerator
	presence domain.PresenceTracker
}

func NewAuth(
	users domain.UserRepository,
	profiles domain.ProfileRepository,
	tokens TokenIssuer,
	uid domain.UIDGenerator,
	presence domain.PresenceTracker,
) *Auth {
	return &Auth{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		uid:      uid,
		presence: presence,
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=64"`
	Password    string `json:"password" binding:"required,min=8"`
}

func (h *Auth) Register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.profiles.FindByDisplayName(c.Request.Context(), body.DisplayName); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNameTaken.Error()})
		return
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		abortWithInternalError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	uid, err := h.uid.NewUID(c.Request.Context())
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	user := &domain.User{
		ID:           domain.UserID(strconv.FormatUint(uid, 10)),
		Username:     body.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Insert(c.Request.Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		abortWithInternalError(c, err)
		return
	}

	profile := &domain.Profile{
		UserID:      user.ID,
		DisplayName: body.DisplayName,
	}
	if err := h.profiles.Insert(c.Request.Context(), profile); err != nil {
		abortWithInternalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": string(user.ID)})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Auth) Login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), body.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
			return
		}
		abortWithInternalError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		abortWithInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": string(user.ID),
	})
}

// Logout drops the user to offline immediately even when sockets are still
// draining, so friends see the transition at the moment of logout.
func (h *Auth) Logout(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	h.presence.ForceOffline(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
