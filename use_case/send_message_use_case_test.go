package use_case

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchat/backend/domain"
)

func TestSendMessage(t *testing.T) {
	broker := newFakeBroker()
	broker.join("chat:12_7", "conn-1")

	messages := &fakeMessageRepo{}
	uc := NewSendMessage(messages, broker)

	message, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
		ConnID: "conn-1",
		From:   "7",
		Room:   "12_7",
		Text:   "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "hi", message.Text)
	assert.Equal(t, domain.UserID("7"), message.Sender)
	assert.NotZero(t, message.ID)
	assert.False(t, message.CreatedAt.IsZero())

	require.Len(t, messages.appended, 1)

	events := broker.events()
	require.Len(t, events, 1)
	assert.Equal(t, "chat:12_7", events[0].group)
	assert.Equal(t, domain.EventChatMessage, events[0].event.Type)
	assert.Equal(t, message.ID, events[0].event.ChatMessage.ID)
}

func TestSendMessageTrimsWhitespace(t *testing.T) {
	broker := newFakeBroker()
	broker.join("chat:12_7", "conn-1")

	messages := &fakeMessageRepo{}
	uc := NewSendMessage(messages, broker)

	message, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
		ConnID: "conn-1",
		From:   "7",
		Room:   "12_7",
		Text:   "  hi  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", message.Text)
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	broker := newFakeBroker()
	broker.join("chat:12_7", "conn-1")

	messages := &fakeMessageRepo{}
	uc := NewSendMessage(messages, broker)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
			ConnID: "conn-1",
			From:   "7",
			Room:   "12_7",
			Text:   text,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}

	assert.Empty(t, messages.appended)
	assert.Empty(t, broker.events())
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	broker := newFakeBroker()

	messages := &fakeMessageRepo{}
	uc := NewSendMessage(messages, broker)

	_, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
		ConnID: "conn-1",
		From:   "7",
		Room:   "12_7",
		Text:   "hi",
	})
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	// A rejected submission must never reach storage.
	assert.Empty(t, messages.appended)
	assert.Empty(t, broker.events())
}

func TestSendMessageSucceedsWhenPublishFails(t *testing.T) {
	broker := newFakeBroker()
	broker.join("chat:12_7", "conn-1")
	broker.publishErr = assert.AnError

	messages := &fakeMessageRepo{}
	uc := NewSendMessage(messages, broker)

	message, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
		ConnID: "conn-1",
		From:   "7",
		Room:   "12_7",
		Text:   "hi",
	})
	require.NoError(t, err)
	assert.NotNil(t, message)
	assert.Len(t, messages.appended, 1)
}

func TestSendMessageFailsWhenAppendFails(t *testing.T) {
	broker := newFakeBroker()
	broker.join("chat:12_7", "conn-1")

	messages := &fakeMessageRepo{err: assert.AnError}
	uc := NewSendMessage(messages, broker)

	_, err := uc.Execute(context.Background(), &domain.SendMessageRequest{
		ConnID: "conn-1",
		From:   "7",
		Room:   "12_7",
		Text:   "hi",
	})
	require.Error(t, err)
	assert.Empty(t, broker.events())
}
