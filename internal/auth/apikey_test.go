package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianprints/storefront/storage"
	"github.com/meridianprints/storefront/storage/db"
)

func setupAuth(t *testing.T) (*storage.Storage, string) {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	plaintext, hash, prefix, err := GenerateAPIKey()
	require.NoError(t, err)

	_, err = queries.CreateAPIKey(context.Background(), db.CreateAPIKeyParams{
		ID:        uuid.New().String(),
		Name:      "test key",
		KeyHash:   hash,
		KeyPrefix: prefix,
	})
	require.NoError(t, err)

	return &storage.Storage{Queries: queries}, plaintext
}

func doRequest(store *storage.Storage, mutate func(*http.Request)) *httptest.ResponseRecorder {
	e := echo.New()
	handler := APIKeyAuth(store)(func(c echo.Context) error {
		info := GetAPIKeyInfo(c.Request().Context())
		return c.String(http.StatusOK, info.Name)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestAPIKeyAuthHeader(t *testing.T) {
	store, key := setupAuth(t)

	rec := doRequest(store, func(r *http.Request) {
		r.Header.Set("X-API-Key", key)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test key", rec.Body.String())
}

func TestAPIKeyAuthBearer(t *testing.T) {
	store, key := setupAuth(t)

	rec := doRequest(store, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+key)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuthRejections(t *testing.T) {
	store, key := setupAuth(t)

	e := echo.New()
	handler := APIKeyAuth(store)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	cases := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"missing key", func(r *http.Request) {}},
		{"wrong prefix", func(r *http.Request) { r.Header.Set("X-API-Key", "zz_deadbeef") }},
		{"unknown key", func(r *http.Request) { r.Header.Set("X-API-Key", keyPrefix+strings.Repeat("0", 64)) }},
		{"truncated key", func(r *http.Request) { r.Header.Set("X-API-Key", key[:len(key)-2]) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			tc.mutate(req)
			rec := httptest.NewRecorder()
			err := handler(e.NewContext(req, rec))

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, keyPrefix))
	assert.True(t, strings.HasPrefix(prefix, keyPrefix))
	assert.Len(t, hash, 64, "sha256 hex digest")
	assert.NotContains(t, hash, plaintext)
}
