package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-characters-ok", time.Hour)

	token, err := mgr.GenerateToken("ops@example.com", RoleOperator)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_RejectsBadTokens(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-characters-ok", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-key-32-chars-long", time.Hour)
		token, err := other.GenerateToken("ops@example.com", RoleViewer)
		require.NoError(t, err)

		_, err = mgr.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		short := NewJWTManager("test-secret-key-32-characters-ok", -time.Minute)
		token, err := short.GenerateToken("ops@example.com", RoleViewer)
		require.NoError(t, err)

		_, err = mgr.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := mgr.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-characters-ok", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
	})
	h := Authenticate(mgr)(next)

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := mgr.GenerateToken("ops@example.com", RoleOperator)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/loads", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/loads", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/loads", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-32-characters-ok", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Authenticate(mgr)(RequireRole(RoleOperator)(next))

	do := func(role string) int {
		token, err := mgr.GenerateToken("ops@example.com", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(RoleOperator))
	assert.Equal(t, http.StatusForbidden, do(RoleViewer))

	t.Run("no auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
		rec := httptest.NewRecorder()
		RequireRole(RoleOperator)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
