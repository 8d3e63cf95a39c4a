package middleware

import (
	"net/http"
	"strings"

	"github.com/irisgate/irisgate/internal/api/apierr"
	"github.com/irisgate/irisgate/internal/services/auth"
)

// Auth creates authentication middleware. With no operator key
// configured the service accepts everything, so a bare deployment
// behind a trusted network needs no tokens.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService.Enabled() {
				token := extractToken(r)
				if token == "" {
					apierr.WriteError(w, apierr.NewUnauthorizedError())
					return
				}

				if err := authService.ValidateToken(token); err != nil {
					apierr.WriteError(w, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
