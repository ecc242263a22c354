package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ksasaki/traininglog/internal/apperrors"
)

// TokenService issues and verifies HS256 signed JWTs carrying the user
// id as subject.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	// injectable for deterministic expiry in tests
	NowFunc func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret:  secret,
		ttl:     ttl,
		NowFunc: time.Now,
	}
}

func (s *TokenService) Generate(userID string) (string, error) {
	now := s.NowFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates the token and returns the user id it was
// issued for. Expired, malformed or wrongly signed tokens all map to an
// auth error.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.NowFunc() }),
	)
	if err != nil || !token.Valid {
		return "", apperrors.NewAuth("invalid or expired token")
	}
	if claims.Subject == "" {
		return "", apperrors.NewAuth("invalid or expired token")
	}
	return claims.Subject, nil
}
