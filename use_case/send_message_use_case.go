package use_case

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/socialchat/backend/domain"
)

// sendMessage is the relay between an inbound chat frame and the room's live
// members: validate, persist, then fan out. Delivery is at-most-once; a
// recipient that is offline misses the live event and catches up through the
// history endpoint.
type sendMessage struct {
	messages domain.MessageRepository
	broker   domain.Broker
}

func NewSendMessage(
	messages domain.MessageRepository,
	broker domain.Broker,
) *sendMessage {
	return &sendMessage{
		messages: messages,
		broker:   broker,
	}
}

func (uc *sendMessage) Execute(ctx context.Context, req *domain.SendMessageRequest) (*domain.Message, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	// The sending connection must actually be joined to the room; anything
	// else is a forged submission.
	if !uc.broker.Member(domain.ChatGroup(req.Room), req.ConnID) {
		return nil, domain.ErrNotParticipant
	}

	message, err := uc.messages.Append(ctx, req.Room, req.From, text)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	// Fire-and-forget: persistence succeeded, so a failed fanout only costs
	// the live delivery.
	delivered, err := uc.broker.Publish(domain.ChatGroup(req.Room), domain.NewChatMessageEvent(message))
	if err != nil {
		log.Printf("err: publish chat_message %d to room %s: %s", message.ID, req.Room, err)
	} else {
		log.Printf("chat_message %d delivered to %d connections in room %s", message.ID, delivered, req.Room)
	}

	return message, nil
}
