package middleware

import (
	"context"
	"net/http"

	"github.com/satriastudio/studio-be/internal/auth"
	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
)

// IdentityFromContext returns the admin identity set by RequireAdmin.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(auth.Identity)
	return id, ok
}

// RequireAdmin rejects requests without a valid bearer token. Every failure
// gets the same 401 body; the reason is only logged.
func RequireAdmin(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := tokens.VerifyHeader(r.Header.Get("Authorization"))
			if err != nil {
				logging.Logger.WithError(err).
					WithField("path", r.URL.Path).
					WithField("request_id", RequestIDFromContext(r.Context())).
					Warn("admin token rejected")
				respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxIdentity, id)))
		})
	}
}
