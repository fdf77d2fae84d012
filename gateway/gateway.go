// Package gateway owns websocket connections: the authentication handshake,
// group registration, the per-connection read loop, and teardown.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/socialchat/backend/domain"
)

// Close codes distinguish auth failure from transient failure on the client
// side. 4000-4003 mirror the private range websocket applications use.
const (
	CloseInternalError      = 4000
	CloseMissingCredentials = 4001
	CloseInvalidCredentials = 4002
	CloseInvalidParameter   = 4003
)

type Gateway struct {
	upgrader    websocket.Upgrader
	auth        domain.AuthResolver
	rooms       *domain.RoomResolver
	broker      domain.Broker
	presence    domain.PresenceTracker
	relay       domain.SendMessageUseCase
	sendTimeout time.Duration
}

func New(
	auth domain.AuthResolver,
	rooms *domain.RoomResolver,
	broker domain.Broker,
	presence domain.PresenceTracker,
	relay domain.SendMessageUseCase,
	sendTimeout time.Duration,
) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrameSize,
			WriteBufferSize: maxFrameSize,
		},
		auth:        auth,
		rooms:       rooms,
		broker:      broker,
		presence:    presence,
		relay:       relay,
		sendTimeout: sendTimeout,
	}
}

// Open upgrades the request and runs the handshake: token, then identity,
// then (on the chat path) the peer parameter and room derivation. A failed
// step closes the socket with its distinct code before any group is joined.
func (g *Gateway) Open(w http.ResponseWriter, r *http.Request, requirePeer bool) (*Conn, error) {
	token := r.URL.Query().Get("token")
	peer := r.URL.Query().Get("peer_id")

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade http connection: %w", err)
	}

	if token == "" {
		refuse(ws, CloseMissingCredentials, "missing credentials")
		return nil, domain.ErrMissingToken
	}

	userID, err := g.auth.ResolveToken(token)
	if err != nil {
		refuse(ws, CloseInvalidCredentials, "invalid credentials")
		return nil, domain.ErrInvalidToken
	}

	var room string

	if requirePeer && peer == "" {
		refuse(ws, CloseInvalidParameter, "missing peer_id")
		return nil, domain.ErrMissingPeer
	}

	if peer != "" {
		room, err = g.rooms.Resolve(userID, domain.UserID(peer))
		if err != nil {
			refuse(ws, CloseInvalidParameter, "invalid peer_id")
			return nil, err
		}
	}

	conn := newConn(ws, userID, room, g.sendTimeout, g)

	go conn.writePump()

	conn.groups = append(conn.groups, domain.UserGroup(userID))
	if room != "" {
		conn.groups = append(conn.groups, domain.ChatGroup(room))
	}

	for _, group := range conn.groups {
		if err = g.broker.Join(group, conn); err != nil {
			g.leaveAll(conn)
			refuse(ws, CloseInternalError, "internal error")
			close(conn.done)
			return nil, fmt.Errorf("join group %s: %w", group, err)
		}
	}

	conn.presenceEpoch = g.presence.Connected(r.Context(), userID)

	log.Printf("connection %s opened: user %s, groups %v", conn.id, userID, conn.groups)

	return conn, nil
}

// Serve runs the read loop until the transport closes, then tears the
// connection down. Inbound frames are routed by a closed switch over the
// known envelope types; anything else is dropped with a warning and the
// connection survives.
func (g *Gateway) Serve(ctx context.Context, conn *Conn) {
	defer g.Close(conn)

	conn.ws.SetReadLimit(maxFrameSize)
	conn.ws.SetReadDeadline(time.Now().Add(pongDeadlineDuration))

	conn.ws.SetPongHandler(func(string) error {
		g.presence.Refresh(ctx, conn.userID)
		return conn.ws.SetReadDeadline(time.Now().Add(pongDeadlineDuration))
	})

	for {
		_, r, err := conn.ws.NextReader()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				log.Printf("close received from user %s: [%d] %s", conn.userID, closeErr.Code, closeErr.Text)
			} else if !errors.Is(err, net.ErrClosed) {
				log.Printf("err: read from user %s: %s", conn.userID, err)
			}

			return
		}

		var env domain.InboundEnvelope

		if err = json.NewDecoder(r).Decode(&env); err != nil {
			log.Printf("warn: undecodable frame from user %s dropped: %s", conn.userID, err)
			continue
		}

		switch env.Type {
		case domain.InboundChatMessage:
			if conn.room == "" {
				log.Printf("warn: chat frame from user %s on a connection without a room", conn.userID)
				continue
			}

			_, err = g.relay.Execute(ctx, &domain.SendMessageRequest{
				ConnID: conn.id,
				From:   conn.userID,
				Room:   conn.room,
				Text:   env.Message.Text,
			})
			if err != nil {
				log.Printf("err: relay %s from user %s in room %s: %s",
					env.Type, conn.userID, conn.room, err)
			}
		default:
			log.Printf("warn: unknown frame type %q from user %s dropped", env.Type, conn.userID)
		}
	}
}

// Close removes the connection from every group it belongs to and flips
// presence when it was the user's last live connection. Closing twice is a
// no-op; a closed connection never re-enters a group.
func (g *Gateway) Close(conn *Conn) {
	conn.once.Do(func() {
		g.leaveAll(conn)
		g.presence.Disconnected(context.Background(), conn.userID, conn.presenceEpoch)
		close(conn.done)
		conn.ws.Close()

		log.Printf("connection %s closed: user %s", conn.id, conn.userID)
	})
}

func (g *Gateway) leaveAll(conn *Conn) {
	for _, group := range conn.groups {
		g.broker.Leave(group, conn.id)
	}
}

func refuse(ws *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(code, reason)

	if err := ws.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		log.Printf("err: write close frame: %s", err)
	}

	ws.Close()
}
