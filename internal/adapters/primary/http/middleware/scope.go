package middleware

import (
	"net/http"

	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/lorrc/ticket-sync/internal/infrastructure/logging"
)

// SessionScope tags the request context with the session's interaction
// scope so request logs can be attributed to a user.
func SessionScope(identity ports.IdentityScope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := logging.WithScope(r.Context(), identity.Scope())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
