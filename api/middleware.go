package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/httplog/v3"
	"github.com/warp/timekeeper/core"
)

// ActorHeader names the header carrying the acting user's ID.
const ActorHeader = "X-User-ID"

type ctxKey int

const actorKey ctxKey = iota

// Actor returns the user attached by RequireActor.
func Actor(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(actorKey).(core.User)
	return u, ok
}

// RequireActor resolves the X-User-ID header to a stored user. Requests
// without a header, or naming an unknown user, are rejected with 401.
func (h *Handler) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ActorHeader)
		if id == "" {
			fail(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
			return
		}
		u, err := h.Store.GetUser(r.Context(), id)
		if errors.Is(err, core.ErrUserNotFound) {
			fail(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
			return
		}
		if err != nil {
			writeErrorFrom(w, r, err)
			return
		}

		httplog.SetAttrs(r.Context(), slog.String("user.id", u.ID), slog.String("user.role", string(u.Role)))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, *u)))
	})
}

// RequireRole allows only actors holding one of roles. It must run after
// RequireActor.
func RequireRole(roles ...core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := Actor(r.Context())
			if !ok {
				fail(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
				return
			}
			if !hasRole(u, roles...) {
				forbidden(w, u, roles)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// approverRoles may act on other users' records.
var approverRoles = []core.Role{core.RoleAdmin, core.RoleManager}

func hasRole(u core.User, roles ...core.Role) bool {
	return slices.Contains(roles, u.Role)
}

func forbidden(w http.ResponseWriter, u core.User, roles []core.Role) {
	fail(w, http.StatusForbidden, CodeForbidden, "You do not have permission to access this resource", map[string]any{
		"requiredRoles": roles,
		"userRole":      u.Role,
	})
}

func mustActor(r *http.Request) core.User {
	u, _ := Actor(r.Context())
	return u
}
