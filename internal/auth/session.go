package auth

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/savemoney-app/savemoney/internal/common"
)

// sessionClaims extends the registered claims with the user id.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string
}

// signingKey derives the HS256 key from the device material, so a session
// blob copied in from another device fails verification.
func (s *Service) signingKey(ctx context.Context) ([]byte, error) {
	p, err := s.keys.DeriveKey(ctx, "session-signing")
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInitialization, err)
	}
	return key, nil
}

func (s *Service) mintSessionToken(ctx context.Context, userID string) (string, error) {
	key, err := s.signingKey(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
		UserID: userID,
	})
	return token.SignedString(key)
}

func (s *Service) verifySessionToken(ctx context.Context, tokenString string) (string, error) {
	key, err := s.signingKey(ctx)
	if err != nil {
		return "", err
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
