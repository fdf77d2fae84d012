package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

type EventType string

const (
	EventChatMessage           EventType = "chat_message"
	EventFriendStatus          EventType = "friend_status"
	EventFriendRequest         EventType = "friend_request"
	EventFriendRequestAccepted EventType = "friend_request_accepted"
	EventFriendRequestDeclined EventType = "friend_request_declined"
	EventFriendRemoved         EventType = "friend_removed"
)

// OutboundEvent is the tagged union of everything the fanout layer delivers.
// Exactly one payload field matching the tag is set.
type OutboundEvent struct {
	Type         EventType
	ChatMessage  *Message
	FriendStatus *FriendStatusPayload
	Friend       *FriendPayload
}

type FriendStatusPayload struct {
	UserID    UserID
	Status    string
	Timestamp time.Time
}

// FriendPayload backs the four friend-action tags. It carries the acting
// user's id, display name and avatar URL, nothing more.
type FriendPayload struct {
	UserID      UserID
	DisplayName string
	AvatarURL   string
}

func NewChatMessageEvent(msg *Message) *OutboundEvent {
	return &OutboundEvent{Type: EventChatMessage, ChatMessage: msg}
}

func NewFriendStatusEvent(userID UserID, online bool, at time.Time) *OutboundEvent {
	status := StatusOffline
	if online {
		status = StatusOnline
	}

	return &OutboundEvent{
		Type: EventFriendStatus,
		FriendStatus: &FriendStatusPayload{
			UserID:    userID,
			Status:    status,
			Timestamp: at,
		},
	}
}

func NewFriendEvent(tag EventType, userID UserID, info *DisplayInfo) *OutboundEvent {
	return &OutboundEvent{
		Type: tag,
		Friend: &FriendPayload{
			UserID:      userID,
			DisplayName: info.DisplayName,
			AvatarURL:   info.AvatarURL,
		},
	}
}

type chatMessageWire struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Room      string `json:"room"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type friendStatusWire struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type friendRequestWire struct {
	Type           string `json:"type"`
	FromUserID     string `json:"from_user_id"`
	FromUserName   string `json:"from_user_name"`
	FromUserAvatar string `json:"from_user_avatar"`
}

type friendUpdateWire struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	UserAvatar string `json:"user_avatar"`
}

// Encode normalizes the event into its wire shape. One fixed schema per tag;
// an event whose payload does not match its tag is malformed.
func (e *OutboundEvent) Encode() ([]byte, error) {
	switch e.Type {
	case EventChatMessage:
		if e.ChatMessage == nil {
			return nil, ErrMalformedEvent
		}

		return json.Marshal(chatMessageWire{
			Type:      string(e.Type),
			ID:        strconv.FormatUint(e.ChatMessage.ID, 10),
			Room:      e.ChatMessage.Room,
			Sender:    string(e.ChatMessage.Sender),
			Text:      e.ChatMessage.Text,
			CreatedAt: e.ChatMessage.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	case EventFriendStatus:
		if e.FriendStatus == nil {
			return nil, ErrMalformedEvent
		}

		return json.Marshal(friendStatusWire{
			Type:      string(e.Type),
			UserID:    string(e.FriendStatus.UserID),
			Status:    e.FriendStatus.Status,
			Timestamp: e.FriendStatus.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	case EventFriendRequest:
		if e.Friend == nil {
			return nil, ErrMalformedEvent
		}

		return json.Marshal(friendRequestWire{
			Type:           string(e.Type),
			FromUserID:     string(e.Friend.UserID),
			FromUserName:   e.Friend.DisplayName,
			FromUserAvatar: e.Friend.AvatarURL,
		})
	case EventFriendRequestAccepted, EventFriendRequestDeclined, EventFriendRemoved:
		if e.Friend == nil {
			return nil, ErrMalformedEvent
		}

		return json.Marshal(friendUpdateWire{
			Type:       string(e.Type),
			UserID:     string(e.Friend.UserID),
			UserName:   e.Friend.DisplayName,
			UserAvatar: e.Friend.AvatarURL,
		})
	default:
		return nil, ErrMalformedEvent
	}
}
