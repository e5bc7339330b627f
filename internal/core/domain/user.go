package domain

// SessionUser is the signed-in user as recorded by the session layer.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
}

// Scope is the identity interaction snapshots are stored under.
func (u SessionUser) Scope() string {
	return ResolveScope(u.Email, u.Username)
}

// ResolveScope picks the identity a snapshot is stored under: the email,
// else the username, else the shared guest scope.
func ResolveScope(email, username string) string {
	switch {
	case email != "":
		return email
	case username != "":
		return username
	default:
		return GuestScope
	}
}
