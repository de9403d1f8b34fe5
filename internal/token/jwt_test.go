package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return s
}

func TestJWT_Parse(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := sign(t, jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(exp)})

	claims, err := NewJWT().Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
}

func TestJWT_Expired(t *testing.T) {
	now := time.Now()
	j := NewJWT()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}), false},
		{"expired", sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}), true},
		{"no exp claim", sign(t, jwt.RegisteredClaims{Subject: "1"}), false},
		{"opaque token", "1|q8Xv0aLq2rYbLkZ", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, j.Expired(tt.token, now))
		})
	}
}
