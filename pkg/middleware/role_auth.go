package middleware

import (
	"context"
	"net/http"

	"waves-events/pkg/errors"

	jwtutil "waves-events/pkg/jwt"
)

// RoleAuthMiddleware checks if the user has one of the required roles
func RoleAuthMiddleware(allowedRoles ...jwtutil.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Set by the JWT middleware
			role, ok := GetUserRole(r.Context())
			if !ok || role == "" {
				HandleError(w, r, errors.NewUnauthorizedError("User role not found"))
				return
			}

			hasPermission := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					hasPermission = true
					break
				}
			}
			if !hasPermission {
				HandleError(w, r, errors.NewForbiddenError("Insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin middleware that requires the Admin role
func RequireAdmin(next http.Handler) http.Handler {
	return RoleAuthMiddleware(jwtutil.RoleAdmin)(next)
}

// RequireUser middleware that allows any authenticated user
func RequireUser(next http.Handler) http.Handler {
	return RoleAuthMiddleware(jwtutil.RoleUser, jwtutil.RoleAdmin)(next)
}

// GetUserRole extracts the user role from context
func GetUserRole(ctx context.Context) (jwtutil.Role, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	if !ok {
		return "", false
	}
	return jwtutil.Role(role), true
}

// WithUserRole stores the user role on the context
func WithUserRole(ctx context.Context, role jwtutil.Role) context.Context {
	return context.WithValue(ctx, RoleKey, string(role))
}
