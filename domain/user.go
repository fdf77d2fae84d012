package domain

import (
	"context"
	"time"
)

// UserID is the opaque user identifier. It is treated as a string everywhere
// so the fanout layer works with numeric and non-numeric identity backends.
type UserID string

func (id UserID) String() string {
	return string(id)
}

type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserRepository interface {
	Insert(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id UserID) (*User, error)
}

// AuthResolver resolves a bearer token to a user identity. Unknown or expired
// tokens return ErrInvalidToken or ErrTokenExpired.
type AuthResolver interface {
	ResolveToken(token string) (UserID, error)
}

type UIDGenerator interface {
	NewUID(ctx context.Context) (uint64, error)
}
