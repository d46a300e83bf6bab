package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/meridianprints/storefront/internal/checkout"
	"github.com/meridianprints/storefront/storage/db"
)

// PaymentHandler owns the headless payment endpoints and the Stripe webhook.
type PaymentHandler struct {
	checkout      *checkout.Service
	queries       *db.Queries
	webhookSecret string
}

func NewPaymentHandler(checkoutSvc *checkout.Service, queries *db.Queries, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		checkout:      checkoutSvc,
		queries:       queries,
		webhookSecret: webhookSecret,
	}
}

type CreatePaymentIntentRequest struct {
	Email string `json:"email"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// CreatePaymentIntent starts a headless checkout. The amount comes from the
// server-side cart; the client only supplies an optional receipt email.
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context, sessionID string) error {
	var req CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	clientSecret, intentID, err := h.checkout.CreatePaymentIntent(c.Request().Context(), sessionID, req.Email)
	if err != nil {
		if errors.Is(err, checkout.ErrCartEmpty) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		slog.Error("failed to create payment intent", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create payment intent")
	}

	return c.JSON(http.StatusOK, CreatePaymentIntentResponse{
		ClientSecret:    clientSecret,
		PaymentIntentID: intentID,
	})
}

type CompleteCheckoutRequest struct {
	PaymentIntentID string                   `json:"payment_intent_id"`
	Customer        checkout.CustomerDetails `json:"customer"`
}

// CompleteCheckout finalizes a headless checkout after the client confirmed
// the payment intent.
func (h *PaymentHandler) CompleteCheckout(c echo.Context, sessionID string) error {
	var req CompleteCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.PaymentIntentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing payment_intent_id")
	}

	order, err := h.checkout.CompletePayment(c.Request().Context(), sessionID, req.PaymentIntentID, req.Customer)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrPaymentNotSettled):
			return echo.NewHTTPError(http.StatusConflict, "Payment has not settled")
		case errors.Is(err, checkout.ErrCartEmpty):
			return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		slog.Error("failed to complete checkout", "error", err, "payment_intent", req.PaymentIntentID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to complete checkout")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// HandleWebhook processes Stripe webhook events. The signature is verified
// when a webhook secret is configured; events are deduplicated by id so
// Stripe's redelivery cannot double-process an order.
func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Request body too large")
	}

	var event stripego.Event
	if h.webhookSecret != "" {
		signatureHeader := c.Request().Header.Get("Stripe-Signature")
		event, err = webhook.ConstructEvent(payload, signatureHeader, h.webhookSecret)
		if err != nil {
			slog.Error("webhook signature verification failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid signature")
		}
	} else {
		// For development/testing: parse event without verification
		if err := json.Unmarshal(payload, &event); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing webhook JSON")
		}
	}

	ctx := c.Request().Context()
	if event.ID != "" {
		seen, err := h.queries.CountWebhookEvent(ctx, event.ID)
		if err == nil && seen > 0 {
			slog.Debug("skipping already processed webhook event", "event_id", event.ID)
			return c.NoContent(http.StatusOK)
		}
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			slog.Error("error parsing checkout session", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing webhook JSON")
		}

		if _, err := h.checkout.RecordHostedCheckout(ctx, &session); err != nil {
			slog.Error("error recording hosted checkout", "error", err, "stripe_session", session.ID)
			// Leave the event unrecorded and fail the delivery so Stripe's
			// retry gets processed instead of deduplicated away.
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process event")
		}

	case "payment_intent.succeeded":
		var paymentIntent stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing webhook JSON")
		}

		// Headless checkouts carry the cart session in intent metadata.
		// Finalize the order here so a payment still becomes an order when
		// the client dies before calling the complete endpoint. Hosted
		// checkout intents have no such metadata and are handled above.
		if cartSession := paymentIntent.Metadata["cart_session_id"]; cartSession != "" {
			order, err := h.checkout.CompletePayment(ctx, cartSession, paymentIntent.ID, checkout.CustomerDetails{})
			if err != nil {
				slog.Error("error completing payment from webhook",
					"error", err, "payment_intent_id", paymentIntent.ID)
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process event")
			}
			slog.Info("payment intent succeeded",
				"payment_intent_id", paymentIntent.ID, "order_id", order.ID)
		} else {
			slog.Info("payment intent succeeded", "payment_intent_id", paymentIntent.ID)
		}

	case "payment_intent.payment_failed":
		var paymentIntent stripego.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error parsing webhook JSON")
		}
		slog.Warn("payment intent failed", "payment_intent_id", paymentIntent.ID)

	default:
		slog.Debug("unhandled webhook event type", "type", event.Type)
	}

	if event.ID != "" {
		err := h.queries.RecordWebhookEvent(ctx, db.RecordWebhookEventParams{
			ID:        event.ID,
			EventType: string(event.Type),
		})
		if err != nil {
			slog.Error("failed to record webhook event", "event_id", event.ID, "error", err)
		}
	}

	return c.NoContent(http.StatusOK)
}
