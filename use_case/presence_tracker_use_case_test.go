package use_case

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchat/backend/domain"
)

func TestPresenceConnectAndDisconnect(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	broker.join("user:8", "friend-conn")

	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{friends: map[domain.UserID][]domain.UserID{
		"7": {"8"},
	}}

	tracker := NewPresenceTracker(presence, friends, broker)

	epoch := tracker.Connected(ctx, "7")

	online, _ := presence.IsOnline(ctx, "7")
	assert.True(t, online)

	events := broker.events()
	require.Len(t, events, 1)
	assert.Equal(t, "user:8", events[0].group)
	assert.Equal(t, domain.EventFriendStatus, events[0].event.Type)
	assert.Equal(t, domain.StatusOnline, events[0].event.FriendStatus.Status)
	assert.Equal(t, domain.UserID("7"), events[0].event.FriendStatus.UserID)

	tracker.Disconnected(ctx, "7", epoch)

	online, _ = presence.IsOnline(ctx, "7")
	assert.False(t, online)

	events = broker.events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.StatusOffline, events[1].event.FriendStatus.Status)
}

func TestPresenceSecondConnectionDoesNotReannounce(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{friends: map[domain.UserID][]domain.UserID{
		"7": {"8"},
	}}

	tracker := NewPresenceTracker(presence, friends, broker)

	first := tracker.Connected(ctx, "7")
	second := tracker.Connected(ctx, "7")

	assert.Len(t, broker.events(), 1)

	// Closing one of two connections keeps the user online.
	tracker.Disconnected(ctx, "7", first)

	online, _ := presence.IsOnline(ctx, "7")
	assert.True(t, online)
	assert.Len(t, broker.events(), 1)

	tracker.Disconnected(ctx, "7", second)

	online, _ = presence.IsOnline(ctx, "7")
	assert.False(t, online)
	assert.Len(t, broker.events(), 2)
}

func TestPresenceDisconnectWithoutConnectIsNoOp(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{}

	tracker := NewPresenceTracker(presence, friends, broker)

	tracker.Disconnected(ctx, "7", 0)

	assert.Empty(t, broker.events())
}

func TestPresenceBroadcastsToEveryFriendButNotSelf(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{friends: map[domain.UserID][]domain.UserID{
		"7": {"8", "9", "10"},
	}}

	tracker := NewPresenceTracker(presence, friends, broker)

	tracker.Connected(ctx, "7")

	groups := make([]string, 0, 3)
	for _, e := range broker.events() {
		groups = append(groups, e.group)
	}

	assert.ElementsMatch(t, []string{"user:8", "user:9", "user:10"}, groups)
	assert.NotContains(t, groups, "user:7")
}

func TestPresenceFriendFetchFailureStillPersists(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{err: assert.AnError}

	tracker := NewPresenceTracker(presence, friends, broker)

	tracker.Connected(ctx, "7")

	// Durable state updated, broadcast skipped.
	online, _ := presence.IsOnline(ctx, "7")
	assert.True(t, online)
	assert.Empty(t, broker.events())
}

func TestPresenceRefresh(t *testing.T) {
	ctx := context.Background()

	presence := newFakePresenceRepo()
	tracker := NewPresenceTracker(presence, &fakeFriendGraph{}, newFakeBroker())

	tracker.Refresh(ctx, "7")
	tracker.Refresh(ctx, "7")

	assert.Equal(t, 2, presence.refreshed["7"])
}

func TestPresenceForceOffline(t *testing.T) {
	ctx := context.Background()

	broker := newFakeBroker()
	presence := newFakePresenceRepo()
	friends := &fakeFriendGraph{friends: map[domain.UserID][]domain.UserID{
		"7": {"8"},
	}}

	tracker := NewPresenceTracker(presence, friends, broker)

	tracker.Connected(ctx, "7")
	tracker.Connected(ctx, "7")

	// Logout flips offline even with two live connections.
	tracker.ForceOffline(ctx, "7")

	online, _ := presence.IsOnline(ctx, "7")
	assert.False(t, online)

	events := broker.events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.StatusOffline, events[1].event.FriendStatus.Status)
}

// gatedPresenceRepo parks SetOffline until released so a racing reconnect
// can try to overtake the in-flight offline write.
type gatedPresenceRepo struct {
	*fakePresenceRepo
	offlineStarted chan struct{}
	offlineRelease chan struct{}
}

func newGatedPresenceRepo() *gatedPresenceRepo {
	return &gatedPresenceRepo{
		fakePresenceRepo: newFakePresenceRepo(),
		offlineStarted:   make(chan struct{}),
		offlineRelease:   make(chan struct{}),
	}
}

func (r *gatedPresenceRepo) SetOffline(ctx context.Context, userID domain.UserID) error {
	close(r.offlineStarted)
	<-r.offlineRelease

	return r.fakePresenceRepo.SetOffline(ctx, userID)
}

func TestPresenceReconnectWaitsForInFlightOfflineWrite(t *testing.T) {
	ctx := context.Background()

	presence := newGatedPresenceRepo()
	tracker := NewPresenceTracker(presence, &fakeFriendGraph{}, newFakeBroker())

	epoch := tracker.Connected(ctx, "7")

	go tracker.Disconnected(ctx, "7", epoch)
	<-presence.offlineStarted

	reconnected := make(chan struct{})
	go func() {
		tracker.Connected(ctx, "7")
		close(reconnected)
	}()

	// The reconnect must not write SetOnline while the offline write is
	// still in flight; otherwise the stale offline would land last.
	select {
	case <-reconnected:
		t.Fatal("reconnect overtook the in-flight offline write")
	case <-time.After(50 * time.Millisecond):
	}

	close(presence.offlineRelease)
	<-reconnected

	online, _ := presence.IsOnline(ctx, "7")
	assert.True(t, online, "durable presence must be online while a connection is live")
}

func TestPresenceStaleDisconnectAfterForceOffline(t *testing.T) {
	ctx := context.Background()

	presence := newFakePresenceRepo()
	tracker := NewPresenceTracker(presence, &fakeFriendGraph{}, newFakeBroker())

	stale := tracker.Connected(ctx, "7")

	// Logout while the socket is still draining, then a fresh login.
	tracker.ForceOffline(ctx, "7")
	fresh := tracker.Connected(ctx, "7")

	// The pre-logout socket finally closes. Its disconnect belongs to the
	// written-off session and must not drain the new one.
	tracker.Disconnected(ctx, "7", stale)

	online, _ := presence.IsOnline(ctx, "7")
	assert.True(t, online, "live post-login connection must keep the user online")

	tracker.Disconnected(ctx, "7", fresh)

	online, _ = presence.IsOnline(ctx, "7")
	assert.False(t, online)
}
