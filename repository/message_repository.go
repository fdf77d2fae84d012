package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/socialchat/backend/domain"
)

type message struct {
	db  *gocql.Session
	uid domain.UIDGenerator
}

func NewMessage(session *gocql.Session, uid domain.UIDGenerator) *message {
	return &message{
		db:  session,
		uid: uid,
	}
}

// Append assigns the id and creation timestamp here, never from the client,
// so ordering within a room is monotonic.
func (r *message) Append(ctx context.Context, room string, sender domain.UserID, text string) (*domain.Message, error) {
	id, err := r.uid.NewUID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	msg := &domain.Message{
		ID:        id,
		Room:      room,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	err = r.db.Query(
		"INSERT INTO messages (room, id, sender_id, text, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.Room,
		msg.ID,
		string(msg.Sender),
		msg.Text,
		msg.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

func (r *message) List(
	ctx context.Context,
	room string,
	beforeID *uint64,
	limit int,
) ([]domain.Message, error) {
	query := `SELECT
			id, sender_id, text, created_at
		FROM
			messages
		WHERE
			room = ?
			%s
		ORDER BY id DESC LIMIT ?`

	values := []any{room}

	var beforeCondition string

	if beforeID != nil {
		beforeCondition = "AND id < ?"
		values = append(values, *beforeID)
	}

	values = append(values, limit)

	query = fmt.Sprintf(query, beforeCondition)

	scanner := r.db.Query(
		query,
		values...,
	).WithContext(ctx).Iter().Scanner()

	var (
		messages []domain.Message
		err      error
	)

	for scanner.Next() {
		var (
			msg      domain.Message
			senderID string
		)

		err = scanner.Scan(
			&msg.ID,
			&senderID,
			&msg.Text,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		msg.Room = room
		msg.Sender = domain.UserID(senderID)

		messages = append(messages, msg)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("close scanner: %w", err)
	}

	return messages, nil
}
