package use_case

import (
	"context"
	"fmt"
	"log"

	"github.com/socialchat/backend/domain"
)

// friendActions drives the friend graph from the REST side and pushes the
// matching event into the affected user's group. The event is best effort:
// the durable change is the source of truth.
type friendActions struct {
	friendships domain.FriendshipRepository
	profiles    domain.ProfileLookup
	broker      domain.Broker
}

func NewFriendActions(
	friendships domain.FriendshipRepository,
	profiles domain.ProfileLookup,
	broker domain.Broker,
) *friendActions {
	return &friendActions{
		friendships: friendships,
		profiles:    profiles,
		broker:      broker,
	}
}

func (uc *friendActions) Request(ctx context.Context, fromID, toID domain.UserID) error {
	if fromID == toID {
		return domain.ErrInvalidPair
	}

	status, err := uc.friendships.Status(ctx, fromID, toID)
	if err != nil {
		return fmt.Errorf("read friendship status: %w", err)
	}

	switch status {
	case domain.FriendshipAccepted:
		return domain.ErrAlreadyFriends
	case domain.FriendshipPendingIn, domain.FriendshipPendingOut:
		return domain.ErrRequestPending
	}

	if err = uc.friendships.CreateRequest(ctx, fromID, toID); err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}

	uc.notify(ctx, domain.EventFriendRequest, fromID, toID)

	return nil
}

func (uc *friendActions) Accept(ctx context.Context, userID, fromID domain.UserID) error {
	if err := uc.friendships.Accept(ctx, userID, fromID); err != nil {
		return fmt.Errorf("accept friend request: %w", err)
	}

	uc.notify(ctx, domain.EventFriendRequestAccepted, userID, fromID)

	return nil
}

func (uc *friendActions) Decline(ctx context.Context, userID, fromID domain.UserID) error {
	status, err := uc.friendships.Status(ctx, userID, fromID)
	if err != nil {
		return fmt.Errorf("read friendship status: %w", err)
	}

	if status != domain.FriendshipPendingIn {
		return domain.ErrRequestNotFound
	}

	if err = uc.friendships.Delete(ctx, userID, fromID); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}

	uc.notify(ctx, domain.EventFriendRequestDeclined, userID, fromID)

	return nil
}

func (uc *friendActions) Remove(ctx context.Context, userID, friendID domain.UserID) error {
	status, err := uc.friendships.Status(ctx, userID, friendID)
	if err != nil {
		return fmt.Errorf("read friendship status: %w", err)
	}

	if status != domain.FriendshipAccepted {
		return domain.ErrFriendshipNotFound
	}

	if err = uc.friendships.Delete(ctx, userID, friendID); err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}

	uc.notify(ctx, domain.EventFriendRemoved, userID, friendID)

	return nil
}

func (uc *friendActions) Incoming(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	ids, err := uc.friendships.ListIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}

	return ids, nil
}

// notify enriches the event with the acting user's display info and publishes
// it to the target's user group.
func (uc *friendActions) notify(ctx context.Context, tag domain.EventType, actorID, targetID domain.UserID) {
	info, err := uc.profiles.DisplayInfo(ctx, actorID)
	if err != nil {
		log.Printf("err: enrich %s event for user %s: %s", tag, actorID, err)
		return
	}

	if _, err = uc.broker.Publish(domain.UserGroup(targetID), domain.NewFriendEvent(tag, actorID, info)); err != nil {
		log.Printf("err: publish %s to user %s: %s", tag, targetID, err)
	}
}
