package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-backend/internal/auth/handler"
	"github.com/taskhub/taskhub-backend/internal/auth/jwt"
	"github.com/taskhub/taskhub-backend/pkg/config"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

func newManager() *jwt.Manager {
	return jwt.NewManager(&config.JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "taskhub",
	})
}

func protected(captured **principal.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = principal.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	manager := newManager()

	t.Run("valid token attaches principal", func(t *testing.T) {
		pair, err := manager.GenerateTokenPair(&jwt.UserInfo{
			ID:    "user-1",
			Email: "test@example.com",
			Name:  "Test User",
			Role:  "admin",
		}, "session-1")
		require.NoError(t, err)

		var captured *principal.Principal
		mw := handler.Authenticate(manager)(protected(&captured))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "user-1", captured.ID)
		assert.Equal(t, principal.RoleAdmin, captured.Role)
		assert.True(t, captured.IsAdmin())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		var captured *principal.Principal
		mw := handler.Authenticate(manager)(protected(&captured))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, captured)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		var captured *principal.Principal
		mw := handler.Authenticate(manager)(protected(&captured))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		var captured *principal.Principal
		mw := handler.Authenticate(manager)(protected(&captured))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		pair, err := manager.GenerateTokenPair(&jwt.UserInfo{
			ID:   "user-1",
			Role: "user",
		}, "session-1")
		require.NoError(t, err)

		var captured *principal.Principal
		mw := handler.Authenticate(manager)(protected(&captured))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, captured)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		ctx := principal.WithPrincipal(req.Context(), &principal.Principal{ID: "a", Role: principal.RoleAdmin})
		rec := httptest.NewRecorder()

		handler.RequireAdmin(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		ctx := principal.WithPrincipal(req.Context(), &principal.Principal{ID: "u", Role: principal.RoleUser})
		rec := httptest.NewRecorder()

		handler.RequireAdmin(next).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()

		handler.RequireAdmin(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
