package domain

import (
	"fmt"
	"strconv"
)

// RoomScheme selects how a two-party room identifier is derived. Exactly one
// scheme is active per process; mixing schemes across call sites would make
// the two participants land in different rooms.
type RoomScheme string

const (
	// RoomSchemeLexicographic joins the two identifiers sorted as strings.
	RoomSchemeLexicographic RoomScheme = "lexicographic"
	// RoomSchemeNumeric joins the two identifiers as min/max integers. It
	// rejects identifiers that do not parse as unsigned integers.
	RoomSchemeNumeric RoomScheme = "numeric"
)

const roomSeparator = "_"

// RoomResolver derives the canonical identifier of a two-party chat room.
// Resolve is deterministic and order-independent: Resolve(a, b) == Resolve(b, a).
type RoomResolver struct {
	scheme RoomScheme
}

func NewRoomResolver(scheme RoomScheme) (*RoomResolver, error) {
	switch scheme {
	case RoomSchemeLexicographic, RoomSchemeNumeric:
		return &RoomResolver{scheme: scheme}, nil
	default:
		return nil, fmt.Errorf("unknown room id scheme: %q", scheme)
	}
}

func (r *RoomResolver) Resolve(a, b UserID) (string, error) {
	if a == b {
		return "", ErrInvalidPair
	}

	switch r.scheme {
	case RoomSchemeNumeric:
		return resolveNumeric(a, b)
	default:
		return resolveLexicographic(a, b), nil
	}
}

func resolveLexicographic(a, b UserID) string {
	if b < a {
		a, b = b, a
	}

	return string(a) + roomSeparator + string(b)
}

func resolveNumeric(a, b UserID) (string, error) {
	na, err := strconv.ParseUint(string(a), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNonNumericID, a)
	}

	nb, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNonNumericID, b)
	}

	if nb < na {
		na, nb = nb, na
	}

	return fmt.Sprintf("%d%s%d", na, roomSeparator, nb), nil
}

// Group name families. Every live connection of a user is a member of the
// user group; both participants of a room are members of the chat group.
func UserGroup(id UserID) string {
	return "user:" + string(id)
}

func ChatGroup(roomID string) string {
	return "chat:" + roomID
}
