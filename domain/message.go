package domain

import (
	"context"
	"time"
)

type Message struct {
	ID        uint64    `json:"id"`
	Room      string    `json:"room"`
	Sender    UserID    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageRepository persists chat messages. Append assigns the message id and
// the creation timestamp server-side so ordering within a room is monotonic
// regardless of client clocks.
type MessageRepository interface {
	Append(ctx context.Context, room string, sender UserID, text string) (*Message, error)
	List(ctx context.Context, room string, beforeID *uint64, limit int) ([]Message, error)
}

type SendMessageRequest struct {
	ConnID string
	From   UserID
	Room   string
	Text   string
}

type SendMessageUseCase interface {
	Execute(ctx context.Context, req *SendMessageRequest) (*Message, error)
}

type ListMessageRequest struct {
	BeforeID *uint64 `form:"beforeId"`
	To       string  `form:"to" binding:"required"`
}

// InboundEnvelope is the client-to-server frame. Unknown types and malformed
// payloads are dropped without closing the connection.
type InboundEnvelope struct {
	Type    string `json:"type"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

const InboundChatMessage = "chat_message"
