package domain

import (
	"context"
	"time"
)

const (
	FriendshipPendingIn  = "pending_in"
	FriendshipPendingOut = "pending_out"
	FriendshipAccepted   = "accepted"
)

type Friendship struct {
	UserID    UserID    `json:"userId"`
	FriendID  UserID    `json:"friendId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FriendActionsUseCase mutates the friend graph and pushes the matching
// notification event to the affected user.
type FriendActionsUseCase interface {
	Request(ctx context.Context, fromID, toID UserID) error
	Accept(ctx context.Context, userID, fromID UserID) error
	Decline(ctx context.Context, userID, fromID UserID) error
	Remove(ctx context.Context, userID, friendID UserID) error
	Incoming(ctx context.Context, userID UserID) ([]UserID, error)
}

// FriendshipRepository stores the friend graph as mirrored rows: each edge is
// written under both participants so a single-partition read answers any
// direction of the relation.
type FriendshipRepository interface {
	Status(ctx context.Context, userID, otherID UserID) (string, error)
	CreateRequest(ctx context.Context, fromID, toID UserID) error
	Accept(ctx context.Context, userID, fromID UserID) error
	Delete(ctx context.Context, userID, otherID UserID) error
	ListIncoming(ctx context.Context, userID UserID) ([]UserID, error)
	ListFriendIDs(ctx context.Context, userID UserID) ([]UserID, error)
}
