package gateway

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/socialchat/backend/domain"
)

const (
	pingTickerDuration   = 5 * time.Second
	pongDeadlineDuration = 30 * time.Second
	maxFrameSize         = 4096
)

// Conn is one live transport session. It is owned by the Gateway and is the
// only writer to the underlying websocket: everything outbound goes through
// the buffered send channel and the write pump, so broker fanout never blocks
// on a peer longer than the send timeout.
type Conn struct {
	id            string
	userID        domain.UserID
	room          string
	groups        []string
	createdAt     time.Time
	presenceEpoch uint64

	ws          *websocket.Conn
	send        chan []byte
	sendTimeout time.Duration
	done        chan struct{}
	once        sync.Once

	gw *Gateway
}

func newConn(ws *websocket.Conn, userID domain.UserID, room string, sendTimeout time.Duration, gw *Gateway) *Conn {
	return &Conn{
		id:          uuid.NewString(),
		userID:      userID,
		room:        room,
		createdAt:   time.Now(),
		ws:          ws,
		send:        make(chan []byte, 32),
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
		gw:          gw,
	}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) UserID() domain.UserID {
	return c.userID
}

// Send queues a payload for the write pump. It waits at most the send
// timeout; a peer that cannot accept the payload in time is reported as dead
// and the caller decides its fate.
func (c *Conn) Send(payload []byte) error {
	timeout := time.NewTimer(c.sendTimeout)
	defer timeout.Stop()

	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return domain.ErrConnectionClosed
	case <-timeout.C:
		return domain.ErrSendTimeout
	}
}

func (c *Conn) Kill(reason string) {
	log.Printf("killing connection %s of user %s: %s", c.id, c.userID, reason)
	c.gw.Close(c)
}

// writePump drains the send channel onto the wire and keeps the peer alive
// with pings. It exits when the connection is closed from either side.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingTickerDuration)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.sendTimeout))

			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("err: write to user %s: %s", c.userID, err)
				c.gw.Close(c)
				return
			}
		case <-ticker.C:
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.sendTimeout))
			if err != nil {
				if err != websocket.ErrCloseSent {
					log.Printf("err: send ping to user %s: %s", c.userID, err)
				}

				c.gw.Close(c)
				return
			}
		case <-c.done:
			return
		}
	}
}
