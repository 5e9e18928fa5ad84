package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"lloyds": "key-123"}
	var gotTenant string
	handler := APIKeyAuth(keys)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = GetTenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer key resolves tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/summary", nil)
		req.Header.Set("Authorization", "Bearer key-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "lloyds", gotTenant)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/summary", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/summary", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health probes skip auth", func(t *testing.T) {
		for _, path := range []string{"/health", "/ready", "/live"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}

func TestTenantAllowed(t *testing.T) {
	base := context.Background()

	assert.NoError(t, TenantAllowed(base, "lloyds"))

	authed := context.WithValue(base, TenantKey, "lloyds")
	assert.NoError(t, TenantAllowed(authed, "lloyds"))
	assert.ErrorIs(t, TenantAllowed(authed, "hsbc"), ErrTenantForbidden)
}
