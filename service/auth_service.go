package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/socialchat/backend/domain"
)

type authClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// auth issues and resolves the bearer tokens carried by REST requests and the
// websocket handshake.
type auth struct {
	secret        []byte
	expireSeconds int64
}

func NewAuth(secret string, expireSeconds int64) *auth {
	return &auth{
		secret:        []byte(secret),
		expireSeconds: expireSeconds,
	}
}

func (s *auth) GenerateToken(userID domain.UserID) (string, error) {
	claims := &authClaims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expireSeconds) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

func (s *auth) ResolveToken(tokenString string) (domain.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}

		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}

	return domain.UserID(claims.UserID), nil
}
