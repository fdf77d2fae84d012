package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/socialchat/backend/domain"
)

// onlinePresenceDuration outlives the websocket ping interval, so a live
// connection keeps the key fresh and a crashed process lets it lapse.
const onlinePresenceDuration = 40 * time.Second

type presence struct {
	db *redis.Client
}

func NewPresence(client *redis.Client) *presence {
	return &presence{
		db: client,
	}
}

func (r *presence) SetOnline(ctx context.Context, userID domain.UserID) error {
	return r.db.Set(
		ctx,
		r.key(userID),
		time.Now().UTC().Format(time.RFC3339),
		onlinePresenceDuration,
	).Err()
}

func (r *presence) SetOffline(ctx context.Context, userID domain.UserID) error {
	return r.db.Del(ctx, r.key(userID)).Err()
}

func (r *presence) Refresh(ctx context.Context, userID domain.UserID) error {
	return r.db.Expire(ctx, r.key(userID), onlinePresenceDuration).Err()
}

func (r *presence) IsOnline(ctx context.Context, userID domain.UserID) (bool, error) {
	err := r.db.Get(ctx, r.key(userID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *presence) key(userID domain.UserID) string {
	return fmt.Sprintf("presence:%s", userID)
}
