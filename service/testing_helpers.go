package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meridianprints/storefront/internal/cart"
	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/internal/checkout"
	"github.com/meridianprints/storefront/internal/cloudinary"
	"github.com/meridianprints/storefront/internal/handlers"
	"github.com/meridianprints/storefront/internal/receipt"
	"github.com/meridianprints/storefront/storage"
)

const testCatalogJSON = `{
	"products": [
		{"id": "p1", "handle": "aurora-print", "title": "Aurora Print",
		 "priceMin": {"cents": 3500, "currency": "USD"},
		 "priceMax": {"cents": 3500, "currency": "USD"},
		 "images": [{"url": "https://cdn.example.com/aurora.jpg"}],
		 "variants": [{"id": "v1", "title": "12x18 / Unframed",
			"price": {"cents": 3500, "currency": "USD"}, "available": true}]},
		{"id": "p2", "handle": "tidepool-print", "title": "Tidepool Print",
		 "priceMin": {"cents": 4200, "currency": "USD"},
		 "priceMax": {"cents": 4200, "currency": "USD"},
		 "variants": [{"id": "v2", "title": "Default",
			"price": {"cents": 4200, "currency": "USD"}, "available": true}]}
	],
	"collections": [
		{"id": "c1", "handle": "landscapes", "title": "Landscapes",
		 "productHandles": ["aurora-print"]}
	]
}`

// setupTestService creates a service instance with an in-memory database and
// a local file catalog for testing
func setupTestService(t *testing.T) *Service {
	t.Helper()

	_, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(cleanup)

	// Storage DB field is private; queries is all the handlers need
	store := &storage.Storage{
		Queries: queries,
	}

	catalogPath := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(catalogPath, []byte(testCatalogJSON), 0o644); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}
	local, err := catalog.NewLocalProvider(catalogPath)
	if err != nil {
		t.Fatalf("failed to load test catalog: %v", err)
	}
	provider := catalog.NewCachedProvider(local, time.Minute)

	config := &Config{
		Environment: "test",
		Port:        "8080",
		BaseURL:     "http://localhost:8080",
		ShopName:    "Meridian Prints",
	}
	config.Catalog.Source = "local"

	carts := cart.NewService(queries, provider)
	checkoutSvc := checkout.NewService(queries, carts, nil, config.BaseURL)

	return &Service{
		storage:        store,
		config:         config,
		catalog:        provider,
		carts:          carts,
		checkout:       checkoutSvc,
		paymentHandler: handlers.NewPaymentHandler(checkoutSvc, queries, ""),
		receipts:       receipt.NewGenerator(config.ShopName, config.BaseURL),
		images:         cloudinary.NewBuilder(""),
	}
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	e := echo.New()
	// Disable Echo's default error handler for cleaner test output
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok {
			c.Response().WriteHeader(he.Code)
		} else {
			c.Response().WriteHeader(500)
		}
	}

	svc := setupTestService(t)
	svc.RegisterRoutes(e)

	return e, svc
}
