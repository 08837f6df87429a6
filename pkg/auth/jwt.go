package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medvault/consent-api/internal/model"
)

// Service issues and validates bearer tokens carrying an actor
// identity. Identity verification itself happens upstream; the token
// only transports the already-verified actor id to the API layer.
type Service struct {
	secret []byte
	expiry time.Duration
}

func NewService(secret string, expiry time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// GenerateToken mints a signed token for the given actor.
func (s *Service) GenerateToken(actor model.ActorID) (string, error) {
	if actor.IsZero() {
		return "", fmt.Errorf("actor id is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   actor.String(),
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies the signature and expiry and returns the actor id.
func (s *Service) ValidateToken(tokenString string) (model.ActorID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return model.ActorID(claims.Subject), nil
}
