package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
)

// Claims is the subset of the ticket API's access token this client reads.
// The API puts the user's email in "sub".
type Claims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the token payload without verifying the signature.
// The signing key belongs to the ticket API, so the claims are only used to
// pick an interaction scope and never for authorization.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(tokenString), claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedSession, err)
	}
	return claims, nil
}

// Identity returns the email, falling back to the subject.
func (c *Claims) Identity() string {
	if c.Email != "" {
		return c.Email
	}
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// Expired reports whether the token carries an expiry before now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
