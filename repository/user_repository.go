package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/socialchat/backend/domain"
)

type user struct {
	db *gocql.Session
}

func NewUser(session *gocql.Session) *user {
	return &user{
		db: session,
	}
}

func (r *user) Insert(ctx context.Context, u *domain.User) error {
	// users_by_username is the uniqueness guard: IF NOT EXISTS on the lookup
	// row loses the race instead of overwriting an existing account.
	applied, err := r.db.Query(
		"INSERT INTO users_by_username (username, user_id) VALUES (?, ?) IF NOT EXISTS",
		u.Username,
		string(u.ID),
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("insert username lookup: %w", err)
	}

	if !applied {
		return domain.ErrUserAlreadyExists
	}

	err = r.db.Query(
		"INSERT INTO users (user_id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		string(u.ID),
		u.Username,
		u.PasswordHash,
		u.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *user) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var userID string

	err := r.db.Query(
		"SELECT user_id FROM users_by_username WHERE username = ?",
		username,
	).WithContext(ctx).Scan(&userID)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, domain.ErrUserNotFound
		}

		return nil, fmt.Errorf("select username lookup: %w", err)
	}

	return r.FindByID(ctx, domain.UserID(userID))
}

func (r *user) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	u := domain.User{ID: id}

	var createdAt time.Time

	err := r.db.Query(
		"SELECT username, password_hash, created_at FROM users WHERE user_id = ?",
		string(id),
	).WithContext(ctx).Scan(&u.Username, &u.PasswordHash, &createdAt)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, domain.ErrUserNotFound
		}

		return nil, fmt.Errorf("select user: %w", err)
	}

	u.CreatedAt = createdAt

	return &u, nil
}
