package domain

import (
	"context"
	"time"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

type Presence struct {
	UserID    UserID    `json:"userId"`
	Online    bool      `json:"online"`
	ChangedAt time.Time `json:"changedAt"`
}

// PresenceRepository is the durable presence collaborator. The fanout core
// never holds a live handle to stored state; it only flips and reads it.
type PresenceRepository interface {
	SetOnline(ctx context.Context, userID UserID) error
	SetOffline(ctx context.Context, userID UserID) error
	Refresh(ctx context.Context, userID UserID) error
	IsOnline(ctx context.Context, userID UserID) (bool, error)
}

// PresenceTracker derives online state from the count of active connections
// per user, not from a bare flag, so several simultaneous connections do not
// make presence flap.
//
// Connected returns an epoch; Disconnected must hand it back. ForceOffline
// advances the epoch, so disconnects of connections it wrote off are ignored
// instead of draining the count of a session opened afterwards.
type PresenceTracker interface {
	Connected(ctx context.Context, userID UserID) uint64
	Disconnected(ctx context.Context, userID UserID, epoch uint64)
	Refresh(ctx context.Context, userID UserID)
	ForceOffline(ctx context.Context, userID UserID)
}

// FriendGraph returns the identifiers of a user's accepted friends. The
// snapshot is immutable; callers never mutate persisted rows through it.
type FriendGraph interface {
	ListFriendIDs(ctx context.Context, userID UserID) ([]UserID, error)
}
