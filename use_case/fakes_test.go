package use_case

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/socialchat/backend/domain"
)

type publishedEvent struct {
	group string
	event *domain.OutboundEvent
}

type fakeBroker struct {
	mu         sync.Mutex
	members    map[string]map[string]bool
	published  []publishedEvent
	publishErr error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		members: make(map[string]map[string]bool),
	}
}

func (b *fakeBroker) Join(group string, sub domain.Subscriber) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.members[group] == nil {
		b.members[group] = make(map[string]bool)
	}
	b.members[group][sub.ID()] = true

	return nil
}

func (b *fakeBroker) Leave(group, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.members[group], subID)
}

func (b *fakeBroker) Member(group, subID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.members[group][subID]
}

func (b *fakeBroker) Publish(group string, event *domain.OutboundEvent) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.publishErr != nil {
		return 0, b.publishErr
	}

	b.published = append(b.published, publishedEvent{group: group, event: event})

	return len(b.members[group]), nil
}

func (b *fakeBroker) join(group, subID string) {
	b.Join(group, staticSubscriber(subID))
}

func (b *fakeBroker) events() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]publishedEvent(nil), b.published...)
}

type staticSubscriber string

func (s staticSubscriber) ID() string         { return string(s) }
func (s staticSubscriber) Send([]byte) error  { return nil }
func (s staticSubscriber) Kill(reason string) {}

type fakeMessageRepo struct {
	nextID   uint64
	appended []domain.Message
	err      error
}

func (r *fakeMessageRepo) Append(ctx context.Context, room string, sender domain.UserID, text string) (*domain.Message, error) {
	if r.err != nil {
		return nil, r.err
	}

	r.nextID++
	message := domain.Message{
		ID:        r.nextID,
		Room:      room,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	r.appended = append(r.appended, message)

	return &message, nil
}

func (r *fakeMessageRepo) List(ctx context.Context, room string, beforeID *uint64, limit int) ([]domain.Message, error) {
	return nil, nil
}

type fakePresenceRepo struct {
	mu        sync.Mutex
	online    map[domain.UserID]bool
	refreshed map[domain.UserID]int
	err       error
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{
		online:    make(map[domain.UserID]bool),
		refreshed: make(map[domain.UserID]int),
	}
}

func (r *fakePresenceRepo) SetOnline(ctx context.Context, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.online[userID] = true

	return nil
}

func (r *fakePresenceRepo) SetOffline(ctx context.Context, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.online[userID] = false

	return nil
}

func (r *fakePresenceRepo) Refresh(ctx context.Context, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.refreshed[userID]++

	return nil
}

func (r *fakePresenceRepo) IsOnline(ctx context.Context, userID domain.UserID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.online[userID], nil
}

type fakeFriendGraph struct {
	friends map[domain.UserID][]domain.UserID
	err     error
}

func (g *fakeFriendGraph) ListFriendIDs(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	if g.err != nil {
		return nil, g.err
	}

	return g.friends[userID], nil
}

type fakeFriendshipRepo struct {
	statuses map[string]string
	incoming map[domain.UserID][]domain.UserID

	created [][2]domain.UserID
	deleted [][2]domain.UserID

	acceptErr error
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{
		statuses: make(map[string]string),
		incoming: make(map[domain.UserID][]domain.UserID),
	}
}

func edgeKey(userID, otherID domain.UserID) string {
	return string(userID) + "->" + string(otherID)
}

func (r *fakeFriendshipRepo) Status(ctx context.Context, userID, otherID domain.UserID) (string, error) {
	return r.statuses[edgeKey(userID, otherID)], nil
}

func (r *fakeFriendshipRepo) CreateRequest(ctx context.Context, fromID, toID domain.UserID) error {
	r.statuses[edgeKey(fromID, toID)] = domain.FriendshipPendingOut
	r.statuses[edgeKey(toID, fromID)] = domain.FriendshipPendingIn
	r.created = append(r.created, [2]domain.UserID{fromID, toID})

	return nil
}

func (r *fakeFriendshipRepo) Accept(ctx context.Context, userID, fromID domain.UserID) error {
	if r.acceptErr != nil {
		return r.acceptErr
	}

	r.statuses[edgeKey(userID, fromID)] = domain.FriendshipAccepted
	r.statuses[edgeKey(fromID, userID)] = domain.FriendshipAccepted

	return nil
}

func (r *fakeFriendshipRepo) Delete(ctx context.Context, userID, otherID domain.UserID) error {
	delete(r.statuses, edgeKey(userID, otherID))
	delete(r.statuses, edgeKey(otherID, userID))
	r.deleted = append(r.deleted, [2]domain.UserID{userID, otherID})

	return nil
}

func (r *fakeFriendshipRepo) ListIncoming(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	return r.incoming[userID], nil
}

func (r *fakeFriendshipRepo) ListFriendIDs(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	var ids []domain.UserID
	for key, status := range r.statuses {
		if status != domain.FriendshipAccepted {
			continue
		}

		parts := strings.SplitN(key, "->", 2)
		if len(parts) == 2 && parts[0] == string(userID) {
			ids = append(ids, domain.UserID(parts[1]))
		}
	}

	return ids, nil
}

type fakeProfileLookup struct {
	infos map[domain.UserID]*domain.DisplayInfo
	err   error
}

func (l *fakeProfileLookup) DisplayInfo(ctx context.Context, userID domain.UserID) (*domain.DisplayInfo, error) {
	if l.err != nil {
		return nil, l.err
	}

	info, ok := l.infos[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	return info, nil
}
