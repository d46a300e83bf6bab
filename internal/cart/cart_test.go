package cart

import (
	"context"
	"database/sql"
	"testing"

	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) ListProducts(context.Context, catalog.ListOptions) (catalog.Page, error) {
	return catalog.Page{}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, handle string) (catalog.Product, error) {
	product, ok := f.products[handle]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return product, nil
}

func (f *fakeCatalog) ListCollections(context.Context) ([]catalog.Collection, error) {
	return nil, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]catalog.Product{
		"aurora-print": {
			ID:     "prod_aurora",
			Handle: "aurora-print",
			Title:  "Aurora Print",
			Images: []catalog.Image{{URL: "https://cdn.example.com/aurora.jpg"}},
			Variants: []catalog.Variant{
				{
					ID:        "var_aurora_12x18",
					Title:     "12x18 / Unframed",
					Price:     catalog.Money{Cents: 3500, Currency: "USD"},
					Available: true,
				},
				{
					ID:        "var_aurora_18x24",
					Title:     "18x24 / Framed",
					Price:     catalog.Money{Cents: 9500, Currency: "USD"},
					Available: true,
				},
				{
					ID:        "var_aurora_24x36",
					Title:     "24x36 / Framed",
					Price:     catalog.Money{Cents: 14500, Currency: "USD"},
					Available: false,
				},
			},
		},
		"tidepool-print": {
			ID:     "prod_tidepool",
			Handle: "tidepool-print",
			Title:  "Tidepool Print",
			Variants: []catalog.Variant{
				{
					ID:        "var_tidepool_only",
					Title:     "Default",
					Price:     catalog.Money{Cents: 4200, Currency: "USD"},
					Available: true,
				},
			},
		},
	}}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewService(queries, testCatalog())
}

func TestGetEmptyCart(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Get(context.Background(), "session-empty")
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.SubtotalCents)
	assert.Equal(t, int64(0), got.ItemCount)
}

func TestAddItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 2)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	item := got.Items[0]
	assert.Equal(t, "prod_aurora", item.ProductID)
	assert.Equal(t, "var_aurora_12x18", item.VariantID)
	assert.Equal(t, "Aurora Print", item.Title)
	assert.Equal(t, "12x18 / Unframed", item.VariantTitle)
	assert.Equal(t, int64(3500), item.UnitPriceCents)
	assert.Equal(t, int64(2), item.Quantity)
	assert.Equal(t, int64(7000), item.TotalCents)
	assert.Equal(t, "https://cdn.example.com/aurora.jpg", item.ImageURL)
	assert.Equal(t, int64(7000), got.SubtotalCents)
	assert.Equal(t, int64(2), got.ItemCount)
}

func TestAddSameVariantIncrementsQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 3)
	require.NoError(t, err)

	require.Len(t, got.Items, 1, "same variant must merge into one line")
	assert.Equal(t, int64(4), got.Items[0].Quantity)
	assert.Equal(t, int64(14000), got.SubtotalCents)
}

func TestAddDifferentVariantsStaySeparate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_18x24", 1)
	require.NoError(t, err)

	require.Len(t, got.Items, 2, "different variants of one product are distinct lines")
	assert.Equal(t, int64(3500+9500), got.SubtotalCents)
}

func TestAddItemDefaultsToSoleVariant(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.AddItem(context.Background(), "session-1", "tidepool-print", "", 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "var_tidepool_only", got.Items[0].VariantID)
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity, "zero quantity is rejected")

	_, err = svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity, "negative quantity is rejected")

	_, err = svc.AddItem(ctx, "session-1", "no-such-print", "var_x", 1)
	assert.ErrorIs(t, err, ErrVariantUnavailable)

	_, err = svc.AddItem(ctx, "session-1", "aurora-print", "var_nonexistent", 1)
	assert.ErrorIs(t, err, ErrVariantUnavailable)

	_, err = svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_24x36", 1)
	assert.ErrorIs(t, err, ErrVariantUnavailable, "sold-out variant cannot be added")
}

func TestUpdateItemQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	got, err := svc.UpdateItemQuantity(ctx, "session-1", itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Items[0].Quantity)
	assert.Equal(t, int64(17500), got.SubtotalCents)

	// Quantity zero removes the line.
	got, err = svc.UpdateItemQuantity(ctx, "session-1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestUpdateItemQuantityRejectsNegative(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 2)
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, "session-1", added.Items[0].ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// The line is untouched.
	got, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
}

func TestUpdateUnknownItem(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateItemQuantity(context.Background(), "session-1", "missing-item", 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)

	got, err := svc.RemoveItem(ctx, "session-1", added.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.SubtotalCents)
}

func TestSessionsCannotTouchEachOthersItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, "session-owner", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	_, err = svc.RemoveItem(ctx, "session-intruder", itemID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.UpdateItemQuantity(ctx, "session-intruder", itemID, 99)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Owner's cart is untouched.
	got, err := svc.Get(ctx, "session-owner")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].Quantity)
}

func TestClearCart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "session-1", "tidepool-print", "", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "session-1"))

	got, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	// The cart row itself is gone, not just its items.
	_, err = svc.queries.GetCartBySession(ctx, "session-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Adding after a clear starts a fresh cart.
	got, err = svc.AddItem(ctx, "session-1", "aurora-print", "var_aurora_12x18", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), got.SubtotalCents)

	// Clearing a session without a cart is fine.
	assert.NoError(t, svc.Clear(ctx, "session-never-seen"))
}
