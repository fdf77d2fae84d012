package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomResolverLexicographic(t *testing.T) {
	resolver, err := NewRoomResolver(RoomSchemeLexicographic)
	require.NoError(t, err)

	room, err := resolver.Resolve("7", "12")
	require.NoError(t, err)
	assert.Equal(t, "12_7", room)

	reversed, err := resolver.Resolve("12", "7")
	require.NoError(t, err)
	assert.Equal(t, room, reversed)
}

func TestRoomResolverLexicographicAcceptsNonNumericIDs(t *testing.T) {
	resolver, err := NewRoomResolver(RoomSchemeLexicographic)
	require.NoError(t, err)

	room, err := resolver.Resolve("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice_bob", room)
}

func TestRoomResolverNumeric(t *testing.T) {
	resolver, err := NewRoomResolver(RoomSchemeNumeric)
	require.NoError(t, err)

	room, err := resolver.Resolve("12", "7")
	require.NoError(t, err)
	assert.Equal(t, "7_12", room)

	reversed, err := resolver.Resolve("7", "12")
	require.NoError(t, err)
	assert.Equal(t, room, reversed)
}

func TestRoomResolverNumericRejectsNonNumericIDs(t *testing.T) {
	resolver, err := NewRoomResolver(RoomSchemeNumeric)
	require.NoError(t, err)

	_, err = resolver.Resolve("alice", "7")
	assert.ErrorIs(t, err, ErrNonNumericID)

	_, err = resolver.Resolve("7", "bob")
	assert.ErrorIs(t, err, ErrNonNumericID)
}

func TestRoomResolverRejectsSelfPair(t *testing.T) {
	for _, scheme := range []RoomScheme{RoomSchemeLexicographic, RoomSchemeNumeric} {
		resolver, err := NewRoomResolver(scheme)
		require.NoError(t, err)

		_, err = resolver.Resolve("7", "7")
		assert.ErrorIs(t, err, ErrInvalidPair)
	}
}

func TestRoomResolverIsDeterministic(t *testing.T) {
	resolver, err := NewRoomResolver(RoomSchemeLexicographic)
	require.NoError(t, err)

	first, err := resolver.Resolve("7", "12")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		room, err := resolver.Resolve("7", "12")
		require.NoError(t, err)
		require.Equal(t, first, room)
	}
}

func TestNewRoomResolverRejectsUnknownScheme(t *testing.T) {
	_, err := NewRoomResolver("hashed")
	assert.Error(t, err)
}

func TestGroupNames(t *testing.T) {
	assert.Equal(t, "user:7", UserGroup("7"))
	assert.Equal(t, "chat:7_12", ChatGroup("7_12"))
}
