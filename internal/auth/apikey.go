// Package auth authenticates the admin API surface with API keys. Keys are
// stored hashed; the plaintext is shown once at creation time.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/meridianprints/storefront/storage"
)

const keyPrefix = "mp_"

type ctxKeyAPIKey struct{}

type APIKeyInfo struct {
	ID   string
	Name string
}

// APIKeyAuth creates middleware that authenticates requests using API keys.
// Supports both X-API-Key header and Bearer token authentication.
func APIKeyAuth(store *storage.Storage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var key string

			if apiKey := c.Request().Header.Get("X-API-Key"); apiKey != "" {
				key = apiKey
			} else if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}

			if key == "" {
				return echo.NewHTTPError(401, "Missing API key")
			}

			if !strings.HasPrefix(key, keyPrefix) {
				return echo.NewHTTPError(401, "Invalid API key format")
			}

			h := sha256.Sum256([]byte(key))
			hash := hex.EncodeToString(h[:])

			apiKey, err := store.Queries.GetAPIKeyByHash(c.Request().Context(), hash)
			if err != nil {
				slog.Debug("API key lookup failed", "error", err)
				return echo.NewHTTPError(401, "Invalid or inactive API key")
			}

			if apiKey.IsActive != 1 {
				return echo.NewHTTPError(401, "API key is inactive")
			}

			go func() {
				_ = store.Queries.UpdateAPIKeyLastUsed(context.Background(), apiKey.ID)
			}()

			info := &APIKeyInfo{ID: apiKey.ID, Name: apiKey.Name}
			ctx := context.WithValue(c.Request().Context(), ctxKeyAPIKey{}, info)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetAPIKeyInfo retrieves API key info from the request context.
func GetAPIKeyInfo(ctx context.Context) *APIKeyInfo {
	if k, ok := ctx.Value(ctxKeyAPIKey{}).(*APIKeyInfo); ok {
		return k
	}
	return nil
}

// GenerateAPIKey creates a new API key with the given name.
// Returns the plaintext key (show once), hash (store), and prefix (display).
func GenerateAPIKey() (plaintext, hash, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	random := hex.EncodeToString(bytes)
	plaintext = keyPrefix + random
	prefix = keyPrefix + random[:8] + "..."

	h := sha256.Sum256([]byte(plaintext))
	hash = hex.EncodeToString(h[:])
	return plaintext, hash, prefix, nil
}
