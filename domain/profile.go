package domain

import "context"

type Profile struct {
	UserID      UserID `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// DisplayInfo is the subset of a profile that outbound friend events carry.
// Nothing else ever crosses the wire for another user.
type DisplayInfo struct {
	DisplayName string
	AvatarURL   string
}

type ProfileRepository interface {
	Insert(ctx context.Context, profile *Profile) error
	Get(ctx context.Context, userID UserID) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	FindByDisplayName(ctx context.Context, displayName string) (*Profile, error)
	Search(ctx context.Context, query string, limit int) ([]Profile, error)
}

// ProfileLookup enriches outbound friend events with display data.
type ProfileLookup interface {
	DisplayInfo(ctx context.Context, userID UserID) (*DisplayInfo, error)
}
