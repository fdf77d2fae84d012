package use_case

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/socialchat/backend/domain"
)

// userPresence is the per-user accounting cell. Its mutex is held across the
// durable flip, so SetOnline/SetOffline writes for one user are serialized in
// the order their transitions were decided. The epoch invalidates disconnects
// issued against connections that predate a forced offline.
type userPresence struct {
	mu    sync.Mutex
	count int
	epoch uint64
}

// presenceTracker counts active connections per user and flips durable
// presence only on the 0->1 and 1->0 transitions, so a user with two open
// connections who closes one stays online.
type presenceTracker struct {
	mu    sync.Mutex
	users map[domain.UserID]*userPresence

	presence domain.PresenceRepository
	friends  domain.FriendGraph
	broker   domain.Broker
}

func NewPresenceTracker(
	presence domain.PresenceRepository,
	friends domain.FriendGraph,
	broker domain.Broker,
) *presenceTracker {
	return &presenceTracker{
		users:    make(map[domain.UserID]*userPresence),
		presence: presence,
		friends:  friends,
		broker:   broker,
	}
}

// entry returns the user's accounting cell, creating it on first use. Cells
// are never removed: a removed cell could race a concurrent transition onto a
// fresh mutex, and the map grows with distinct users per process, not with
// connections.
func (t *presenceTracker) entry(userID domain.UserID) *userPresence {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.users[userID]
	if !ok {
		e = &userPresence{}
		t.users[userID] = e
	}

	return e
}

// Connected registers one live connection and returns the epoch the caller
// must hand back to Disconnected.
func (t *presenceTracker) Connected(ctx context.Context, userID domain.UserID) uint64 {
	e := t.entry(userID)

	e.mu.Lock()
	e.count++
	first := e.count == 1
	epoch := e.epoch

	if first {
		t.persist(ctx, userID, true)
	}
	e.mu.Unlock()

	if first {
		t.broadcast(ctx, userID, true)
	}

	return epoch
}

// Disconnected drops one live connection. A disconnect carrying a stale
// epoch belongs to a connection that was already written off by ForceOffline
// and must not touch the current session's count.
func (t *presenceTracker) Disconnected(ctx context.Context, userID domain.UserID, epoch uint64) {
	e := t.entry(userID)

	e.mu.Lock()
	if epoch != e.epoch || e.count == 0 {
		e.mu.Unlock()
		return
	}

	e.count--
	last := e.count == 0

	if last {
		t.persist(ctx, userID, false)
	}
	e.mu.Unlock()

	if last {
		t.broadcast(ctx, userID, false)
	}
}

func (t *presenceTracker) Refresh(ctx context.Context, userID domain.UserID) {
	if err := t.presence.Refresh(ctx, userID); err != nil {
		log.Printf("err: refresh presence of user %s: %s", userID, err)
	}
}

// ForceOffline writes off every currently live connection of the user and
// flips durable presence offline. Used on logout, where the flip must happen
// even though sockets may still be draining; bumping the epoch makes their
// later disconnects no-ops against whatever session opens next.
func (t *presenceTracker) ForceOffline(ctx context.Context, userID domain.UserID) {
	e := t.entry(userID)

	e.mu.Lock()
	e.epoch++
	e.count = 0
	t.persist(ctx, userID, false)
	e.mu.Unlock()

	t.broadcast(ctx, userID, false)
}

func (t *presenceTracker) persist(ctx context.Context, userID domain.UserID, online bool) {
	var err error

	if online {
		err = t.presence.SetOnline(ctx, userID)
	} else {
		err = t.presence.SetOffline(ctx, userID)
	}

	if err != nil {
		log.Printf("err: persist presence of user %s: %s", userID, err)
	}
}

// broadcast publishes the transition to every friend's user group. It runs
// outside the accounting cell's mutex; a failed friend-list fetch degrades to
// "updated but not broadcast".
func (t *presenceTracker) broadcast(ctx context.Context, userID domain.UserID, online bool) {
	friendIDs, err := t.friends.ListFriendIDs(ctx, userID)
	if err != nil {
		log.Printf("err: presence of user %s updated but not broadcast: %s", userID, err)
		return
	}

	event := domain.NewFriendStatusEvent(userID, online, time.Now())

	for _, friendID := range friendIDs {
		if _, err = t.broker.Publish(domain.UserGroup(friendID), event); err != nil {
			log.Printf("err: publish friend_status of user %s to user %s: %s", userID, friendID, err)
		}
	}
}
