package auth

import (
	"context"
	"net/http"
)

//go:generate mockgen -source=$GOFILE -destination=gate_mocks_test.go -package=auth_test

const CookieName = "admin-token"

type tokenVerifier interface {
	Verify(token string) *SessionClaims
}

// Gate decides whether a request carries a valid admin session.
type Gate struct {
	verifier tokenVerifier
}

func NewGate(verifier tokenVerifier) *Gate {
	return &Gate{
		verifier: verifier,
	}
}

// Authenticate returns the session claims from the admin cookie, or nil.
// Without the cookie the verifier is not consulted.
func (g *Gate) Authenticate(r *http.Request) *SessionClaims {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return g.verifier.Verify(cookie.Value)
}

type claimsCtxKey struct{}

func ContextWithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(claimsCtxKey{}).(*SessionClaims)
	return claims
}
