package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianprints/storefront/internal/cart"
	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/internal/shopify"
	"github.com/meridianprints/storefront/storage"
	"github.com/meridianprints/storefront/storage/db"
)

type fakeStripe struct {
	sessions []*stripego.CheckoutSessionParams
	intents  []*stripego.PaymentIntentParams

	intentStatus stripego.PaymentIntentStatus
	intentAmount int64
	intentMeta   map[string]string
}

func (f *fakeStripe) NewCheckoutSession(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	f.sessions = append(f.sessions, params)
	return &stripego.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.com/pay/cs_test_123",
	}, nil
}

func (f *fakeStripe) NewPaymentIntent(params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error) {
	f.intents = append(f.intents, params)
	return &stripego.PaymentIntent{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret",
		Amount:       *params.Amount,
	}, nil
}

func (f *fakeStripe) GetPaymentIntent(id string) (*stripego.PaymentIntent, error) {
	status := f.intentStatus
	if status == "" {
		status = stripego.PaymentIntentStatusSucceeded
	}
	return &stripego.PaymentIntent{
		ID:       id,
		Status:   status,
		Amount:   f.intentAmount,
		Metadata: f.intentMeta,
	}, nil
}

type fakeCatalog struct{}

func (fakeCatalog) ListProducts(context.Context, catalog.ListOptions) (catalog.Page, error) {
	return catalog.Page{}, nil
}

func (fakeCatalog) GetProduct(_ context.Context, handle string) (catalog.Product, error) {
	if handle != "aurora-print" {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return catalog.Product{
		ID:     "prod_aurora",
		Handle: "aurora-print",
		Title:  "Aurora Print",
		Variants: []catalog.Variant{{
			ID:        "gid://shopify/ProductVariant/111",
			Title:     "18x24 / Framed",
			Price:     catalog.Money{Cents: 9500, Currency: "USD"},
			Available: true,
		}},
	}, nil
}

func (fakeCatalog) ListCollections(context.Context) ([]catalog.Collection, error) {
	return nil, nil
}

type testEnv struct {
	svc     *Service
	carts   *cart.Service
	queries *db.Queries
	stripe  *fakeStripe
}

func newTestEnv(t *testing.T, admin *shopify.Admin) *testEnv {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	carts := cart.NewService(queries, fakeCatalog{})
	fs := &fakeStripe{}
	svc := NewService(queries, carts, admin, "https://shop.example.com/")
	svc.stripe = fs
	return &testEnv{svc: svc, carts: carts, queries: queries, stripe: fs}
}

func addToCart(t *testing.T, env *testEnv, sessionID string, quantity int64) cart.Cart {
	t.Helper()
	got, err := env.carts.AddItem(context.Background(), sessionID, "aurora-print", "", quantity)
	require.NoError(t, err)
	return got
}

func TestCreateHostedSession(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 2)

	url, err := env.svc.CreateHostedSession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", url)

	require.Len(t, env.stripe.sessions, 1)
	params := env.stripe.sessions[0]
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(9500), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *params.LineItems[0].Quantity)
	assert.Equal(t, "Aurora Print - 18x24 / Framed", *params.LineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, "session-1", params.Metadata["cart_session_id"])
	assert.Contains(t, *params.SuccessURL, "https://shop.example.com/checkout/success")
}

func TestCreateHostedSessionEmptyCart(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.CreateHostedSession(context.Background(), "session-empty")
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCreatePaymentIntentUsesServerSideAmount(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 3)

	secret, intentID, err := env.svc.CreatePaymentIntent(context.Background(), "session-1", "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "pi_test_123_secret", secret)
	assert.Equal(t, "pi_test_123", intentID)

	require.Len(t, env.stripe.intents, 1)
	params := env.stripe.intents[0]
	assert.Equal(t, int64(3*9500), *params.Amount, "amount comes from the cart, not the client")
	assert.Equal(t, "usd", *params.Currency)
	assert.Equal(t, "buyer@example.com", *params.ReceiptEmail)
}

func TestCompletePayment(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 1)
	env.stripe.intentAmount = 9500
	env.stripe.intentMeta = map[string]string{"cart_session_id": "session-1"}

	order, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{
		Email: "buyer@example.com",
		Name:  "Robin Vale",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, order.Status)
	assert.Equal(t, int64(9500), order.TotalCents)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Equal(t, "pi_test_123", order.StripePaymentIntentID.String)

	items, err := env.queries.GetOrderItems(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Aurora Print", items[0].Title)

	// The cart is cleared once payment settles.
	remaining, err := env.carts.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, remaining.Items)
}

func TestCompletePaymentRejectsUnsettledIntent(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 1)
	env.stripe.intentStatus = stripego.PaymentIntentStatusRequiresPaymentMethod

	_, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{})
	assert.ErrorIs(t, err, ErrPaymentNotSettled)
}

func TestCompletePaymentIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 1)
	env.stripe.intentAmount = 9500
	env.stripe.intentMeta = map[string]string{"cart_session_id": "session-1"}

	first, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{Email: "a@example.com"})
	require.NoError(t, err)

	// Second call for the same intent returns the same order, no duplicate.
	second, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	orders, err := env.queries.ListRecentOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRecordHostedCheckout(t *testing.T) {
	env := newTestEnv(t, nil)
	addToCart(t, env, "session-1", 2)

	session := &stripego.CheckoutSession{
		ID:             "cs_test_abc",
		AmountSubtotal: 19000,
		AmountTotal:    20500,
		Metadata:       map[string]string{"cart_session_id": "session-1"},
		CustomerDetails: &stripego.CheckoutSessionCustomerDetails{
			Email: "buyer@example.com",
			Name:  "Robin Vale",
		},
		PaymentIntent: &stripego.PaymentIntent{ID: "pi_from_session"},
		TotalDetails:  &stripego.CheckoutSessionTotalDetails{AmountTax: 1500},
	}

	order, err := env.svc.RecordHostedCheckout(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(20500), order.TotalCents)
	assert.Equal(t, int64(1500), order.TaxCents)
	assert.Equal(t, "cs_test_abc", order.StripeCheckoutSessionID.String)
	assert.Equal(t, "pi_from_session", order.StripePaymentIntentID.String)

	// Webhook and success redirect race: second record is a no-op.
	again, err := env.svc.RecordHostedCheckout(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)

	orders, err := env.queries.ListRecentOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestShopifyPushOnCompletion(t *testing.T) {
	var gotMutations []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotMutations = append(gotMutations, req.Query)

		switch {
		case strings.Contains(req.Query, "draftOrderCreate"):
			w.Write([]byte(`{"data":{"draftOrderCreate":{"draftOrder":{"id":"gid://shopify/DraftOrder/42"},"userErrors":[]}}}`))
		case strings.Contains(req.Query, "draftOrderComplete"):
			w.Write([]byte(`{"data":{"draftOrderComplete":{"draftOrder":{"id":"gid://shopify/DraftOrder/42","order":{"id":"gid://shopify/Order/99","name":"#1001"}},"userErrors":[]}}}`))
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer server.Close()

	admin := shopify.NewAdmin(shopify.NewAdminClient("example.myshopify.com", "token", "2024-10").WithEndpoint(server.URL))
	env := newTestEnv(t, admin)
	addToCart(t, env, "session-1", 1)
	env.stripe.intentAmount = 9500
	env.stripe.intentMeta = map[string]string{"cart_session_id": "session-1"}

	order, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{
		Email:    "buyer@example.com",
		Name:     "Robin Vale",
		Address1: "12 Harbor Ln",
		City:     "Portland",
		Province: "ME",
		Zip:      "04101",
		Country:  "US",
	})
	require.NoError(t, err)
	require.Len(t, gotMutations, 2)

	assert.Equal(t, StatusSynced, order.Status)
	assert.Equal(t, "gid://shopify/DraftOrder/42", order.ShopifyDraftOrderGid.String)
	assert.Equal(t, "gid://shopify/Order/99", order.ShopifyOrderGid.String)
}

func TestShopifyPushFailureKeepsOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"draftOrderCreate":{"draftOrder":null,"userErrors":[{"field":["input"],"message":"shop is frozen"}]}}}`))
	}))
	defer server.Close()

	admin := shopify.NewAdmin(shopify.NewAdminClient("example.myshopify.com", "token", "2024-10").WithEndpoint(server.URL))
	env := newTestEnv(t, admin)
	addToCart(t, env, "session-1", 1)
	env.stripe.intentAmount = 9500
	env.stripe.intentMeta = map[string]string{"cart_session_id": "session-1"}

	order, err := env.svc.CompletePayment(context.Background(), "session-1", "pi_test_123", CustomerDetails{Email: "a@example.com"})
	require.NoError(t, err, "a failed shopify push must not fail the paid checkout")
	assert.Equal(t, StatusSyncFailed, order.Status)
	assert.Equal(t, int64(9500), order.TotalCents)
}
