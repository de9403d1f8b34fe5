package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/outagetracker/internal/model"
)

// Claims are the registered claims read from a bearer token.
type Claims struct {
	jwt.RegisteredClaims
}

// JWT implements TokenInspector for JWT bearer tokens.
// Signatures are not verified: the client has no key and the server stays
// the authority on validity. Inspection only avoids a round trip for a
// token that has already expired.
type JWT struct {
	parser *jwt.Parser
}

var _ model.TokenInspector = (*JWT)(nil)

// NewJWT creates a new JWT inspector.
func NewJWT() *JWT {
	return &JWT{parser: jwt.NewParser()}
}

// Parse reads claims from tokenString without verifying the signature.
func (j *JWT) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := j.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is before now.
// Opaque tokens and tokens without exp are never reported as expired.
func (j *JWT) Expired(tokenString string, now time.Time) bool {
	claims, err := j.Parse(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
