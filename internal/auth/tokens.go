package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	// SessionTTL is both the token lifetime and the cookie max age.
	SessionTTL = 24 * time.Hour

	// FallbackSecret signs tokens when no secret is configured.
	// Anyone who knows it can forge sessions, so it is only fit for local development.
	FallbackSecret = "fallback-secret"
)

// SessionClaims is the payload of an admin session token.
type SessionClaims struct {
	AdminID int    `json:"userId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
// It keeps no state besides the secret, so any instance sharing the secret
// accepts tokens issued by any other.
type TokenService struct {
	secret []byte
	ttl    time.Duration

	// Now can be swapped in tests.
	Now func() time.Time
}

func NewTokenService(secret string) *TokenService {
	if secret == "" {
		log.Warnln("session secret not set, falling back to the built-in secret; tokens can be forged")
		secret = FallbackSecret
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    SessionTTL,
		Now:    time.Now,
	}
}

// Issue signs a token valid from now until now+SessionTTL, at second precision.
func (s *TokenService) Issue(adminID int, email string) (string, error) {
	now := s.Now().Truncate(time.Second)
	claims := SessionClaims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify returns the claims of a well-formed, correctly signed, unexpired token.
// Any failure yields nil.
func (s *TokenService) Verify(tokenString string) *SessionClaims {
	if tokenString == "" {
		return nil
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil || !token.Valid {
		log.Tracef("session token rejected: %v", err)
		return nil
	}

	return claims
}
