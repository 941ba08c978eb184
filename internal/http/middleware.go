package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/luissince/architect-portfolio-sub000/internal/session"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// RequireSession guards routes that depend on the order ledger or
// checkout completion. "Still loading" and "not authenticated" are
// distinct states: redirecting while the session is still Unknown is
// the flash-redirect defect this gate exists to prevent.
func RequireSession(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sessions.State() {
			case session.StateUnknown:
				w.Header().Set("Retry-After", "1")
				respondError(w, http.StatusServiceUnavailable, "session_loading", "session is still resolving, retry")
			case session.StateAnonymous:
				respondError(w, http.StatusUnauthorized, "unauthenticated", "login required")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
