// Package checkout turns a cart into a paid order. Payment is taken by
// Stripe, either on a Stripe-hosted checkout page or headlessly via a
// payment intent confirmed by the client. Paid orders are recorded locally
// and, when a Shopify shop is configured, pushed to Shopify through the
// draft order flow so fulfillment happens there.
package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	stripego "github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/paymentintent"

	"github.com/meridianprints/storefront/internal/cart"
	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/internal/shopify"
	"github.com/meridianprints/storefront/storage/db"
)

// Order status progression. An order is created "paid" once Stripe confirms
// payment, becomes "synced" after the Shopify push, or "sync_failed" when
// the push errors (the order itself is safe either way, payment is settled).
const (
	StatusPaid       = "paid"
	StatusSynced     = "synced"
	StatusSyncFailed = "sync_failed"
)

// ErrCartEmpty is returned when checkout is started on an empty cart.
var ErrCartEmpty = errors.New("checkout: cart is empty")

// ErrPaymentNotSettled is returned when an order completion is attempted
// for a payment intent Stripe does not report as succeeded.
var ErrPaymentNotSettled = errors.New("checkout: payment not settled")

// stripeAPI is the slice of the Stripe client the service uses. Tests stub
// it; production uses the package-level stripe-go bindings.
type stripeAPI interface {
	NewCheckoutSession(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	NewPaymentIntent(params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error)
	GetPaymentIntent(id string) (*stripego.PaymentIntent, error)
}

type liveStripe struct{}

func (liveStripe) NewCheckoutSession(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	return checkoutsession.New(params)
}

func (liveStripe) NewPaymentIntent(params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error) {
	return paymentintent.New(params)
}

func (liveStripe) GetPaymentIntent(id string) (*stripego.PaymentIntent, error) {
	return paymentintent.Get(id, nil)
}

// Service orchestrates Stripe payment, local order records, and the Shopify
// push. The Shopify admin client is optional; without it orders stay local.
type Service struct {
	queries *db.Queries
	carts   *cart.Service
	admin   *shopify.Admin
	stripe  stripeAPI
	baseURL string
}

func NewService(queries *db.Queries, carts *cart.Service, admin *shopify.Admin, baseURL string) *Service {
	return &Service{
		queries: queries,
		carts:   carts,
		admin:   admin,
		stripe:  liveStripe{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CustomerDetails is what the client supplies for a headless checkout.
type CustomerDetails struct {
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	Address1  string  `json:"address1,omitempty"`
	Address2  string  `json:"address2,omitempty"`
	City      string  `json:"city,omitempty"`
	Province  string  `json:"province,omitempty"`
	Zip       string  `json:"zip,omitempty"`
	Country   string  `json:"country,omitempty"`
	Phone     string  `json:"phone,omitempty"`
}

// CreateHostedSession creates a Stripe Checkout session for the cart and
// returns the URL to redirect the customer to. The cart session id travels
// in session metadata so the webhook can find the cart again.
func (s *Service) CreateHostedSession(ctx context.Context, sessionID string) (string, error) {
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(current.Items) == 0 {
		return "", ErrCartEmpty
	}

	lineItems := make([]*stripego.CheckoutSessionLineItemParams, 0, len(current.Items))
	for _, item := range current.Items {
		name := item.Title
		if item.VariantTitle != "" {
			name = fmt.Sprintf("%s - %s", item.Title, item.VariantTitle)
		}

		lineItem := &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripego.String(strings.ToLower(item.Currency)),
				UnitAmount: stripego.Int64(item.UnitPriceCents),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(name),
					Metadata: map[string]string{
						"product_id": item.ProductID,
						"variant_id": item.VariantID,
					},
				},
			},
			Quantity: stripego.Int64(item.Quantity),
		}
		if item.ImageURL != "" {
			lineItem.PriceData.ProductData.Images = []*string{stripego.String(item.ImageURL)}
		}
		lineItems = append(lineItems, lineItem)
	}

	params := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(stripego.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripego.String(s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripego.String(s.baseURL + "/checkout/cancel"),
		ShippingAddressCollection: &stripego.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: []*string{stripego.String("US"), stripego.String("CA")},
		},
	}
	params.Metadata = map[string]string{"cart_session_id": sessionID}
	params.AddExpand("line_items")

	session, err := s.stripe.NewCheckoutSession(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// CreatePaymentIntent creates a payment intent for the cart's subtotal and
// returns its client secret for client-side confirmation. The amount is
// computed server-side from the cart; the client never supplies it.
func (s *Service) CreatePaymentIntent(ctx context.Context, sessionID, email string) (clientSecret, intentID string, err error) {
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	if len(current.Items) == 0 {
		return "", "", ErrCartEmpty
	}

	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(current.SubtotalCents),
		Currency: stripego.String(strings.ToLower(current.Currency)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	if email != "" {
		params.ReceiptEmail = stripego.String(email)
	}
	params.Metadata = map[string]string{"cart_session_id": sessionID}

	intent, err := s.stripe.NewPaymentIntent(params)
	if err != nil {
		return "", "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, intent.ID, nil
}

// CompletePayment finalizes a headless checkout after the client confirmed
// the payment intent. The intent's status is verified against Stripe, an
// order is recorded, the cart cleared, and the order pushed to Shopify.
// Safe to call more than once per intent; the first call wins.
func (s *Service) CompletePayment(ctx context.Context, sessionID, paymentIntentID string, customer CustomerDetails) (db.Order, error) {
	intent, err := s.stripe.GetPaymentIntent(paymentIntentID)
	if err != nil {
		return db.Order{}, fmt.Errorf("fetch payment intent: %w", err)
	}
	if intent.Status != stripego.PaymentIntentStatusSucceeded {
		return db.Order{}, fmt.Errorf("%w: intent %s is %s", ErrPaymentNotSettled, intent.ID, intent.Status)
	}

	// Intent metadata is the source of truth for which cart was paid for.
	if metaSession := intent.Metadata["cart_session_id"]; metaSession != "" {
		sessionID = metaSession
	}
	if customer.Email == "" && intent.ReceiptEmail != "" {
		customer.Email = intent.ReceiptEmail
	}

	if existing, err := s.queries.GetOrderByPaymentIntent(ctx, nullString(intent.ID)); err == nil {
		return existing, nil
	} else if err != sql.ErrNoRows {
		return db.Order{}, fmt.Errorf("lookup order: %w", err)
	}

	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return db.Order{}, err
	}
	if len(current.Items) == 0 {
		return db.Order{}, ErrCartEmpty
	}

	order, err := s.recordOrder(ctx, recordOrderParams{
		sessionID:       sessionID,
		items:           current.Items,
		subtotalCents:   current.SubtotalCents,
		totalCents:      intent.Amount,
		currency:        current.Currency,
		paymentIntentID: intent.ID,
		customer:        customer,
	})
	if err != nil {
		return db.Order{}, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		slog.Error("failed to clear cart after payment", "session_id", sessionID, "error", err)
	}

	s.pushToShopify(ctx, order, current.Items, customer)
	return s.mustReload(ctx, order)
}

// RecordHostedCheckout records the order for a completed Stripe Checkout
// session. Called from the webhook and from the success redirect; whichever
// arrives first creates the order, the other finds it already present.
func (s *Service) RecordHostedCheckout(ctx context.Context, session *stripego.CheckoutSession) (db.Order, error) {
	if existing, err := s.queries.GetOrderByStripeSessionID(ctx, nullString(session.ID)); err == nil {
		return existing, nil
	} else if err != sql.ErrNoRows {
		return db.Order{}, fmt.Errorf("lookup order: %w", err)
	}

	sessionID := session.Metadata["cart_session_id"]
	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return db.Order{}, err
	}
	if len(current.Items) == 0 {
		// Cart already cleared: the other racer recorded the order between
		// our lookup and now.
		if existing, err := s.queries.GetOrderByStripeSessionID(ctx, nullString(session.ID)); err == nil {
			return existing, nil
		}
		return db.Order{}, ErrCartEmpty
	}

	customer := CustomerDetails{}
	if session.CustomerDetails != nil {
		customer.Email = session.CustomerDetails.Email
		customer.Name = session.CustomerDetails.Name
		customer.Phone = session.CustomerDetails.Phone
	}
	if session.ShippingDetails != nil && session.ShippingDetails.Address != nil {
		addr := session.ShippingDetails.Address
		customer.Address1 = addr.Line1
		customer.Address2 = addr.Line2
		customer.City = addr.City
		customer.Province = addr.State
		customer.Zip = addr.PostalCode
		customer.Country = addr.Country
	}

	params := recordOrderParams{
		sessionID:       sessionID,
		items:           current.Items,
		subtotalCents:   session.AmountSubtotal,
		totalCents:      session.AmountTotal,
		currency:        current.Currency,
		checkoutSession: session.ID,
		customer:        customer,
	}
	if session.PaymentIntent != nil {
		params.paymentIntentID = session.PaymentIntent.ID
	}
	if session.TotalDetails != nil {
		params.taxCents = session.TotalDetails.AmountTax
		params.shippingCents = session.TotalDetails.AmountShipping
	}

	order, err := s.recordOrder(ctx, params)
	if err != nil {
		return db.Order{}, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		slog.Error("failed to clear cart after checkout", "session_id", sessionID, "error", err)
	}

	s.pushToShopify(ctx, order, current.Items, customer)
	return s.mustReload(ctx, order)
}

type recordOrderParams struct {
	sessionID       string
	items           []cart.Item
	subtotalCents   int64
	shippingCents   int64
	taxCents        int64
	totalCents      int64
	currency        string
	paymentIntentID string
	checkoutSession string
	customer        CustomerDetails
}

func (s *Service) recordOrder(ctx context.Context, p recordOrderParams) (db.Order, error) {
	order, err := s.queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:                      ulid.Make().String(),
		CartSessionID:           nullString(p.sessionID),
		CustomerEmail:           p.customer.Email,
		CustomerName:            nullString(p.customer.Name),
		SubtotalCents:           p.subtotalCents,
		ShippingCents:           p.shippingCents,
		TaxCents:                p.taxCents,
		TotalCents:              p.totalCents,
		Currency:                p.currency,
		StripePaymentIntentID:   nullString(p.paymentIntentID),
		StripeCheckoutSessionID: nullString(p.checkoutSession),
		Status:                  StatusPaid,
	})
	if err != nil {
		// A unique violation on the payment reference means the concurrent
		// racer won; hand back its order.
		if p.paymentIntentID != "" {
			if existing, lookupErr := s.queries.GetOrderByPaymentIntent(ctx, nullString(p.paymentIntentID)); lookupErr == nil {
				return existing, nil
			}
		}
		if p.checkoutSession != "" {
			if existing, lookupErr := s.queries.GetOrderByStripeSessionID(ctx, nullString(p.checkoutSession)); lookupErr == nil {
				return existing, nil
			}
		}
		return db.Order{}, fmt.Errorf("create order: %w", err)
	}

	for _, item := range p.items {
		_, err := s.queries.CreateOrderItem(ctx, db.CreateOrderItemParams{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			VariantID:      nullString(item.VariantID),
			Title:          item.Title,
			VariantTitle:   nullString(item.VariantTitle),
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents,
		})
		if err != nil {
			return db.Order{}, fmt.Errorf("create order item: %w", err)
		}
	}

	slog.Info("order recorded",
		"order_id", order.ID,
		"total_cents", order.TotalCents,
		"payment_intent", p.paymentIntentID,
		"checkout_session", p.checkoutSession)
	return order, nil
}

// pushToShopify creates and completes a draft order so the sale shows up in
// Shopify for fulfillment. Failures never fail the checkout; payment is
// already settled, so the order is flagged for a later retry instead.
func (s *Service) pushToShopify(ctx context.Context, order db.Order, items []cart.Item, customer CustomerDetails) {
	if s.admin == nil {
		return
	}
	if order.Status != StatusPaid {
		// Already synced by a previous call.
		return
	}

	input := shopify.DraftOrderInput{
		Tags: []string{"storefront"},
		Note: strPtr("Storefront order " + order.ID),
	}
	if customer.Email != "" {
		input.Email = strPtr(customer.Email)
	}
	if customer.Address1 != "" {
		first, last := splitName(customer.Name)
		input.ShippingAddress = &shopify.MailingAddressInput{
			Address1:  customer.Address1,
			Address2:  optStr(customer.Address2),
			City:      customer.City,
			Province:  optStr(customer.Province),
			Zip:       customer.Zip,
			Country:   customer.Country,
			FirstName: first,
			LastName:  optStr(last),
			Phone:     optStr(customer.Phone),
		}
	}

	for _, item := range items {
		line := shopify.DraftOrderLineItemInput{Quantity: item.Quantity}
		if strings.HasPrefix(item.VariantID, "gid://shopify/") {
			line.VariantID = strPtr(item.VariantID)
		} else {
			// Local-catalog items have no Shopify variant; send a custom
			// line with the snapshotted price.
			title := item.Title
			if item.VariantTitle != "" {
				title = item.Title + " - " + item.VariantTitle
			}
			line.Title = strPtr(title)
			line.OriginalUnitPrice = strPtr(catalog.FormatAmount(item.UnitPriceCents))
		}
		input.LineItems = append(input.LineItems, line)
	}

	draftGID, err := s.admin.CreateDraftOrder(ctx, input)
	if err != nil {
		logPushFailure("shopify draft order create failed", order.ID, err)
		s.markSyncFailed(ctx, order.ID)
		return
	}

	orderGID, orderName, err := s.admin.CompleteDraftOrder(ctx, draftGID)
	if err != nil {
		logPushFailure("shopify draft order complete failed", order.ID, err,
			"draft_order", draftGID)
		s.markSyncFailed(ctx, order.ID)
		return
	}

	err = s.queries.UpdateOrderShopifyRefs(ctx, db.UpdateOrderShopifyRefsParams{
		ShopifyDraftOrderGid: nullString(draftGID),
		ShopifyOrderGid:      nullString(orderGID),
		Status:               StatusSynced,
		ID:                   order.ID,
	})
	if err != nil {
		slog.Error("failed to store shopify refs", "order_id", order.ID, "error", err)
		return
	}
	slog.Info("order synced to shopify",
		"order_id", order.ID, "shopify_order", orderGID, "shopify_name", orderName)
}

// logPushFailure logs a Shopify push error. Rejections from Shopify's own
// validation (userErrors) will not succeed on a retry and log as warnings;
// everything else is an upstream failure worth an error.
func logPushFailure(msg, orderID string, err error, args ...any) {
	args = append([]any{"order_id", orderID, "error", err}, args...)
	if shopify.IsValidation(err) {
		slog.Warn(msg, args...)
		return
	}
	slog.Error(msg, args...)
}

func (s *Service) markSyncFailed(ctx context.Context, orderID string) {
	err := s.queries.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		Status: StatusSyncFailed,
		ID:     orderID,
	})
	if err != nil {
		slog.Error("failed to mark order sync_failed", "order_id", orderID, "error", err)
	}
}

func (s *Service) mustReload(ctx context.Context, order db.Order) (db.Order, error) {
	reloaded, err := s.queries.GetOrder(ctx, order.ID)
	if err != nil {
		return order, nil
	}
	return reloaded, nil
}

func splitName(full string) (first, last string) {
	first, last, found := strings.Cut(strings.TrimSpace(full), " ")
	if !found {
		return first, ""
	}
	return first, last
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func strPtr(s string) *string { return &s }

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
