package domain

import "errors"

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrMissingPeer  = errors.New("missing peer id")

	ErrInvalidPair  = errors.New("invalid user pair")
	ErrNonNumericID = errors.New("non-numeric user id")

	ErrEmptyMessage   = errors.New("empty message text")
	ErrNotParticipant = errors.New("sender is not a participant of the room")

	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendTimeout      = errors.New("send to connection timed out")

	ErrMalformedEvent = errors.New("malformed outbound event")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNameTaken          = errors.New("display name is already taken")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrRequestPending     = errors.New("friend request already pending")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
