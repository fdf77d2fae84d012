package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocql/gocql"

	"github.com/socialchat/backend/domain"
)

// searchScanLimit bounds the partition walk behind display-name search;
// Cassandra has no substring match, so matching happens client-side.
const searchScanLimit = 1000

type profile struct {
	db *gocql.Session
}

func NewProfile(session *gocql.Session) *profile {
	return &profile{
		db: session,
	}
}

func (r *profile) Insert(ctx context.Context, p *domain.Profile) error {
	err := r.db.Query(
		"INSERT INTO profiles (user_id, display_name, avatar_url) VALUES (?, ?, ?)",
		string(p.UserID),
		p.DisplayName,
		p.AvatarURL,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *profile) Get(ctx context.Context, userID domain.UserID) (*domain.Profile, error) {
	p := domain.Profile{UserID: userID}

	err := r.db.Query(
		"SELECT display_name, avatar_url FROM profiles WHERE user_id = ?",
		string(userID),
	).WithContext(ctx).Scan(&p.DisplayName, &p.AvatarURL)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, domain.ErrProfileNotFound
		}

		return nil, fmt.Errorf("select profile: %w", err)
	}

	return &p, nil
}

func (r *profile) Update(ctx context.Context, p *domain.Profile) error {
	err := r.db.Query(
		"UPDATE profiles SET display_name = ?, avatar_url = ? WHERE user_id = ?",
		p.DisplayName,
		p.AvatarURL,
		string(p.UserID),
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *profile) FindByDisplayName(ctx context.Context, displayName string) (*domain.Profile, error) {
	var (
		userID    string
		avatarURL string
	)

	err := r.db.Query(
		"SELECT user_id, avatar_url FROM profiles WHERE display_name = ? LIMIT 1 ALLOW FILTERING",
		displayName,
	).WithContext(ctx).Scan(&userID, &avatarURL)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, domain.ErrProfileNotFound
		}

		return nil, fmt.Errorf("select profile by name: %w", err)
	}

	return &domain.Profile{
		UserID:      domain.UserID(userID),
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}, nil
}

func (r *profile) Search(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	scanner := r.db.Query(
		"SELECT user_id, display_name, avatar_url FROM profiles LIMIT ?",
		searchScanLimit,
	).WithContext(ctx).Iter().Scanner()

	needle := strings.ToLower(query)

	var (
		profiles []domain.Profile
		err      error
	)

	for scanner.Next() {
		var (
			userID      string
			displayName string
			avatarURL   string
		)

		if err = scanner.Scan(&userID, &displayName, &avatarURL); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if !strings.Contains(strings.ToLower(displayName), needle) {
			continue
		}

		profiles = append(profiles, domain.Profile{
			UserID:      domain.UserID(userID),
			DisplayName: displayName,
			AvatarURL:   avatarURL,
		})

		if len(profiles) == limit {
			break
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("close scanner: %w", err)
	}

	return profiles, nil
}

// DisplayInfo satisfies the event-enrichment lookup without exposing the
// whole profile to callers that only format events.
func (r *profile) DisplayInfo(ctx context.Context, userID domain.UserID) (*domain.DisplayInfo, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.DisplayInfo{
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}, nil
}
