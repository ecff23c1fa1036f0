package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/wedding-marketplace/platform/go/auth"
	platformlogging "github.com/zenGate-Global/wedding-marketplace/platform/go/logging"
	"github.com/zenGate-Global/wedding-marketplace/platform/go/requesttrace"
)

// RequestTrace records the acting user (or anonymous caller) on the request context and enriches
// the request logger with it. Mount after the JWT middleware.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, zap.NewNop())
		requestID := middleware.GetReqID(r.Context())

		audit := requesttrace.Anonymous(requestID)
		if creds, ok := platformauth.UserFromContext(r.Context()); ok && creds != nil {
			var err error
			if audit, err = requesttrace.FromCredentials(creds, requestID); err != nil {
				logger.Warn("token without subject", zap.Error(err))
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}
		audit.RemoteAddr = r.RemoteAddr

		fields := []zap.Field{zap.String("actor_kind", string(audit.Actor.Kind))}
		if audit.Actor.Kind == requesttrace.ActorKindUser {
			fields = append(fields, zap.String("user_id", audit.Actor.ID), zap.String("role", audit.Actor.Role))
		} else {
			fields = append(fields, zap.String("remote_addr", audit.RemoteAddr))
		}

		ctx := requesttrace.IntoContext(r.Context(), audit)
		ctx = platformlogging.WithLogger(ctx, logger.With(fields...))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
