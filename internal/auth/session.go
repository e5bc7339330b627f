package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	apperrors "github.com/lorrc/ticket-sync/internal/core/errors"
	"github.com/lorrc/ticket-sync/internal/core/ports"
)

// sessionFile is the login response persisted by the session layer.
type sessionFile struct {
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type,omitempty"`
	User        *domain.SessionUser `json:"user"`
}

// Session reads the current credential on every call so that a login or
// logout by the session owner takes effect without a restart.
type Session struct {
	path          string
	fallbackToken string
	now           func() time.Time
	logger        *slog.Logger
}

var (
	_ ports.CredentialSource = (*Session)(nil)
	_ ports.IdentityScope    = (*Session)(nil)
)

// NewSession reads from path, if set, and falls back to token.
func NewSession(path, token string, logger *slog.Logger) *Session {
	return &Session{
		path:          path,
		fallbackToken: strings.TrimSpace(token),
		now:           time.Now,
		logger:        logger.With("component", "session"),
	}
}

func (s *Session) read() (*sessionFile, error) {
	if s.path == "" {
		return nil, apperrors.ErrMissingSession
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrMissingSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var file sessionFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedSession, err)
	}
	return &file, nil
}

func (s *Session) token() string {
	file, err := s.read()
	if err == nil && strings.TrimSpace(file.AccessToken) != "" {
		return strings.TrimSpace(file.AccessToken)
	}
	if err != nil && !errors.Is(err, apperrors.ErrMissingSession) {
		s.logger.Warn("ignoring unreadable session file", "path", s.path, "error", err)
	}
	return s.fallbackToken
}

// BearerToken returns the access token. Requests go out without an
// Authorization header when it returns ErrMissingSession.
func (s *Session) BearerToken() (string, error) {
	token := s.token()
	if token == "" {
		return "", apperrors.ErrMissingSession
	}
	return token, nil
}

// User returns the user recorded alongside the token.
func (s *Session) User() (domain.SessionUser, bool) {
	file, err := s.read()
	if err != nil || file.User == nil {
		return domain.SessionUser{}, false
	}
	return *file.User, true
}

// Scope resolves the interaction scope: the session user's email, else
// username, else the identity carried by the token, else guest.
func (s *Session) Scope() string {
	if user, ok := s.User(); ok {
		if scope := user.Scope(); scope != domain.GuestScope {
			return scope
		}
	}

	token := s.token()
	if token == "" {
		return domain.GuestScope
	}
	claims, err := ParseClaims(token)
	if err != nil {
		s.logger.Debug("token claims unavailable for scope", "error", err)
		return domain.GuestScope
	}
	if claims.Expired(s.now()) {
		s.logger.Debug("session token has expired")
	}
	if identity := claims.Identity(); identity != "" {
		return identity
	}
	return domain.GuestScope
}
