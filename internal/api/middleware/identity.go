// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"

	"github.com/topmart/Investment-Engine-Backend/internal/api/response"
	"github.com/topmart/Investment-Engine-Backend/internal/service"
)

type contextKey string

const actorKey contextKey = "actor"

// Identity lifts the requester identity set by the upstream auth layer
// (X-User-ID and X-User-Role headers) into the request context as a
// service.Actor. Requests without an identity are rejected; authentication
// itself happens upstream of this service.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "missing identity", "X-User-ID header is required")
			return
		}

		actor := service.Actor{
			UserID:  userID,
			IsAdmin: r.Header.Get("X-User-Role") == "admin",
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose actor is not an admin. Must be
// mounted after Identity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.IsAdmin {
			response.RespondError(w, http.StatusForbidden, "unauthorized", "admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor returns a context carrying the given actor, as Identity would
// have set it. Used by handler tests.
func WithActor(ctx context.Context, actor service.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the requester identity placed by Identity.
func ActorFromContext(ctx context.Context) (service.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(service.Actor)
	return actor, ok
}
