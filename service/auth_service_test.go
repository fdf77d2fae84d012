package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchat/backend/domain"
)

func TestGenerateAndResolveToken(t *testing.T) {
	auth := NewAuth("test-secret", 3600)

	token, err := auth.GenerateToken("7")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := auth.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("7"), userID)
}

func TestResolveTokenWithWrongSecret(t *testing.T) {
	token, err := NewAuth("one-secret", 3600).GenerateToken("7")
	require.NoError(t, err)

	_, err = NewAuth("another-secret", 3600).ResolveToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResolveGarbageToken(t *testing.T) {
	auth := NewAuth("test-secret", 3600)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := auth.ResolveToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	auth := NewAuth("test-secret", -60)

	token, err := auth.GenerateToken("7")
	require.NoError(t, err)

	_, err = auth.ResolveToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestResolveTokenWithoutUserID(t *testing.T) {
	auth := NewAuth("test-secret", 3600)

	empty := jwt.NewWithClaims(jwt.SigningMethodHS256, &authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := empty.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ResolveToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResolveTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	auth := NewAuth("test-secret", 3600)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &authClaims{
		UserID: "7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.ResolveToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
