package handler

import (
	"net/http"
	"strings"

	"github.com/taskhub/taskhub-backend/internal/auth/jwt"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/httputil"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// Authenticate validates the bearer token and attaches the
// authenticated principal to the request context. Requests
// without a valid token are rejected with 401.
func Authenticate(jwtManager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, errors.Unauthorized("invalid authorization header"))
				return
			}

			claims, err := jwtManager.ValidateAccessToken(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			role, err := principal.ParseRole(claims.Role)
			if err != nil {
				httputil.Error(w, errors.TokenInvalid())
				return
			}

			p := &principal.Principal{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Role:  role,
			}

			next.ServeHTTP(w, r.WithContext(principal.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin rejects requests whose principal is not an admin.
// Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := principal.FromContext(r.Context())
		if p == nil {
			httputil.Error(w, errors.Unauthorized("not authenticated"))
			return
		}
		if !p.IsAdmin() {
			httputil.Error(w, errors.Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
