package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/homecare-backend-go/internal/handler/http/response"
)

// RequireEmployee requires the caregiver role
func RequireEmployee(next http.Handler) http.Handler {
	return requireRole(user.RoleEmployee, user.ErrEmployeeAccessRequired)(next)
}

// RequireEmployer requires the employer role
func RequireEmployer(next http.Handler) http.Handler {
	return requireRole(user.RoleEmployer, user.ErrEmployerAccessRequired)(next)
}

func requireRole(role user.Role, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrMissingIdentity)
				return
			}

			if identity.Role != role {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrMissingIdentity)
				return
			}

			if !user.HasPermission(identity.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
