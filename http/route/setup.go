package route

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/socialchat/backend/bootstrap"
	"github.com/socialchat/backend/domain"
	"github.com/socialchat/backend/gateway"
	"github.com/socialchat/backend/http/handler"
	"github.com/socialchat/backend/http/middleware"
	"github.com/socialchat/backend/repository"
	"github.com/socialchat/backend/service"
	"github.com/socialchat/backend/use_case"
)

const v1Prefix = "/v1"

func Setup(app *bootstrap.App) (*gin.Engine, error) {
	if app.Env.EnvironmentName == bootstrap.ProductionEnvironmentName {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	rooms, err := domain.NewRoomResolver(domain.RoomScheme(app.Env.RoomIDScheme))
	if err != nil {
		return nil, fmt.Errorf("new room resolver: %w", err)
	}

	authService := service.NewAuth(app.Env.JWTSecret, app.Env.JWTExpireSeconds)
	uidGenerator := service.NewSonyflakeUID(app.SonyFlake)

	userRepository := repository.NewUser(app.CassandraSession)
	profileRepository := repository.NewProfile(app.CassandraSession)
	friendshipRepository := repository.NewFriendship(app.CassandraSession)
	messageRepository := repository.NewMessage(app.CassandraSession, uidGenerator)
	presenceRepository := repository.NewPresence(app.RedisClient)

	presenceTracker := use_case.NewPresenceTracker(
		presenceRepository,
		friendshipRepository,
		app.Broker,
	)
	sendMessage := use_case.NewSendMessage(messageRepository, app.Broker)
	friendActions := use_case.NewFriendActions(
		friendshipRepository,
		profileRepository,
		app.Broker,
	)

	gw := gateway.New(
		authService,
		rooms,
		app.Broker,
		presenceTracker,
		sendMessage,
		time.Duration(app.Env.SendTimeoutSeconds)*time.Second,
	)

	h := &handler.Handler{
		Auth: handler.NewAuth(
			userRepository,
			profileRepository,
			authService,
			uidGenerator,
			presenceTracker,
		),
		Profile:  handler.NewProfile(profileRepository, friendshipRepository, presenceRepository),
		Friend:   handler.NewFriend(friendActions, profileRepository),
		Chat:     handler.NewChat(gw, messageRepository, rooms),
		Presence: handler.NewPresence(gw),
	}

	eng := gin.Default()

	eng.SetTrustedProxies(nil)

	requireAuth := middleware.NewAuth(authService)

	v1 := eng.Group(v1Prefix)
	{
		// Websocket routes authenticate through the token query parameter
		// inside the handshake, not through the bearer middleware.
		chatRouter(v1, requireAuth, h.Chat)
		presenceRouter(v1, h.Presence)
		authRouter(v1, requireAuth, h.Auth)
		profileRouter(v1, requireAuth, h.Profile)
		friendRouter(v1, requireAuth, h.Friend)
	}

	return eng, nil
}
