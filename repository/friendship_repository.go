package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/socialchat/backend/domain"
)

// friendship stores each edge twice, once per participant, so every read is a
// single-partition query. The two mirror rows carry complementary statuses:
// the requester sees pending_out, the recipient pending_in, and both see
// accepted after the recipient accepts.
type friendship struct {
	db *gocql.Session
}

func NewFriendship(session *gocql.Session) *friendship {
	return &friendship{
		db: session,
	}
}

func (r *friendship) Status(ctx context.Context, userID, otherID domain.UserID) (string, error) {
	var status string

	err := r.db.Query(
		"SELECT status FROM friendships WHERE user_id = ? AND friend_id = ?",
		string(userID),
		string(otherID),
	).WithContext(ctx).Scan(&status)
	if err != nil {
		if err == gocql.ErrNotFound {
			return "", nil
		}

		return "", fmt.Errorf("select friendship: %w", err)
	}

	return status, nil
}

func (r *friendship) CreateRequest(ctx context.Context, fromID, toID domain.UserID) error {
	now := time.Now().UTC()

	batch := r.db.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		"INSERT INTO friendships (user_id, friend_id, status, created_at) VALUES (?, ?, ?, ?)",
		string(fromID), string(toID), domain.FriendshipPendingOut, now,
	)
	batch.Query(
		"INSERT INTO friendships (user_id, friend_id, status, created_at) VALUES (?, ?, ?, ?)",
		string(toID), string(fromID), domain.FriendshipPendingIn, now,
	)

	if err := r.db.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("insert friendship rows: %w", err)
	}

	return nil
}

// Accept flips both mirror rows to accepted. userID is the recipient of the
// original request; the call fails when no pending request exists.
func (r *friendship) Accept(ctx context.Context, userID, fromID domain.UserID) error {
	status, err := r.Status(ctx, userID, fromID)
	if err != nil {
		return err
	}

	if status != domain.FriendshipPendingIn {
		return domain.ErrRequestNotFound
	}

	batch := r.db.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		"UPDATE friendships SET status = ? WHERE user_id = ? AND friend_id = ?",
		domain.FriendshipAccepted, string(userID), string(fromID),
	)
	batch.Query(
		"UPDATE friendships SET status = ? WHERE user_id = ? AND friend_id = ?",
		domain.FriendshipAccepted, string(fromID), string(userID),
	)

	if err = r.db.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("update friendship rows: %w", err)
	}

	return nil
}

func (r *friendship) Delete(ctx context.Context, userID, otherID domain.UserID) error {
	batch := r.db.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(
		"DELETE FROM friendships WHERE user_id = ? AND friend_id = ?",
		string(userID), string(otherID),
	)
	batch.Query(
		"DELETE FROM friendships WHERE user_id = ? AND friend_id = ?",
		string(otherID), string(userID),
	)

	if err := r.db.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("delete friendship rows: %w", err)
	}

	return nil
}

func (r *friendship) ListIncoming(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	return r.listByStatus(ctx, userID, domain.FriendshipPendingIn)
}

func (r *friendship) ListFriendIDs(ctx context.Context, userID domain.UserID) ([]domain.UserID, error) {
	return r.listByStatus(ctx, userID, domain.FriendshipAccepted)
}

func (r *friendship) listByStatus(ctx context.Context, userID domain.UserID, status string) ([]domain.UserID, error) {
	scanner := r.db.Query(
		"SELECT friend_id, status FROM friendships WHERE user_id = ?",
		string(userID),
	).WithContext(ctx).Iter().Scanner()

	var (
		ids []domain.UserID
		err error
	)

	for scanner.Next() {
		var friendID, rowStatus string

		if err = scanner.Scan(&friendID, &rowStatus); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if rowStatus == status {
			ids = append(ids, domain.UserID(friendID))
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("close scanner: %w", err)
	}

	return ids, nil
}
