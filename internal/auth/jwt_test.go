package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		"sub":  "ana@example.com",
		"role": "admin",
		"exp":  expiry.Unix(),
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Identity())
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, expiry.Equal(claims.ExpiresAt.Time))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(expiry.Add(time.Second)))
}

func TestParseClaims_Identity(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"email claim wins", jwt.MapClaims{"email": "bo@example.com", "sub": "42"}, "bo@example.com"},
		{"username next", jwt.MapClaims{"username": "bo", "sub": "42"}, "bo"},
		{"subject last", jwt.MapClaims{"sub": "42"}, "42"},
		{"nothing", jwt.MapClaims{"role": "user"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseClaims(signToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims.Identity())
		})
	}
}

func TestParseClaims_Malformed(t *testing.T) {
	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := ParseClaims(token)
		assert.ErrorIs(t, err, apperrors.ErrMalformedSession, "token %q", token)
	}
}
