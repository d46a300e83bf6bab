package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
	"golang.org/x/sync/errgroup"

	"github.com/meridianprints/storefront/internal/auth"
	"github.com/meridianprints/storefront/internal/cart"
	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/internal/checkout"
	"github.com/meridianprints/storefront/internal/cloudinary"
	"github.com/meridianprints/storefront/internal/handlers"
	"github.com/meridianprints/storefront/internal/receipt"
	"github.com/meridianprints/storefront/internal/shopify"
	"github.com/meridianprints/storefront/storage"
)

const (
	catalogCacheTTL = 5 * time.Minute
	sessionCookie   = "session_id"
)

type Service struct {
	storage        *storage.Storage
	config         *Config
	catalog        catalog.Provider
	carts          *cart.Service
	checkout       *checkout.Service
	paymentHandler *handlers.PaymentHandler
	receipts       *receipt.Generator
	images         cloudinary.Builder
}

func New(store *storage.Storage, config *Config) (*Service, error) {
	provider, err := buildCatalogProvider(config)
	if err != nil {
		return nil, err
	}

	var admin *shopify.Admin
	if config.Shopify.ShopDomain != "" && config.Shopify.AdminToken != "" {
		admin = shopify.NewAdmin(shopify.NewAdminClient(
			config.Shopify.ShopDomain, config.Shopify.AdminToken, config.Shopify.APIVersion))
	}

	stripego.Key = config.Stripe.SecretKey

	carts := cart.NewService(store.Queries, provider)
	checkoutSvc := checkout.NewService(store.Queries, carts, admin, config.BaseURL)

	return &Service{
		storage:        store,
		config:         config,
		catalog:        provider,
		carts:          carts,
		checkout:       checkoutSvc,
		paymentHandler: handlers.NewPaymentHandler(checkoutSvc, store.Queries, config.Stripe.WebhookSecret),
		receipts:       receipt.NewGenerator(config.ShopName, config.BaseURL),
		images:         cloudinary.NewBuilder(config.Cloudinary.CloudName),
	}, nil
}

func buildCatalogProvider(config *Config) (catalog.Provider, error) {
	var inner catalog.Provider
	switch config.Catalog.Source {
	case "local":
		local, err := catalog.NewLocalProvider(config.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load local catalog: %w", err)
		}
		inner = local
	default:
		storefront := shopify.NewStorefront(shopify.NewStorefrontClient(
			config.Shopify.ShopDomain, config.Shopify.StorefrontToken, config.Shopify.APIVersion))
		inner = catalog.NewShopifyProvider(storefront)
	}
	return catalog.NewCachedProvider(inner, catalogCacheTTL), nil
}

// StartBackgroundJobs launches the cart sweeper. Call once after New.
func (s *Service) StartBackgroundJobs(ctx context.Context) {
	s.carts.StartSweeper(ctx, time.Hour)
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.GET("/products", s.handleProducts)
	api.GET("/products/:handle", s.handleProduct)
	api.GET("/collections", s.handleCollections)

	api.GET("/cart", s.handleGetCart)
	api.POST("/cart/items", s.handleAddCartItem)
	api.PUT("/cart/items/:id", s.handleUpdateCartItem)
	api.DELETE("/cart/items/:id", s.handleRemoveCartItem)
	api.DELETE("/cart", s.handleClearCart)

	api.POST("/payment/intent", s.handleCreatePaymentIntent)
	api.POST("/checkout/complete", s.handleCompleteCheckout)
	api.POST("/stripe/webhook", s.paymentHandler.HandleWebhook)

	e.POST("/checkout/session", s.handleCreateCheckoutSession)
	e.GET("/checkout/success", s.handleCheckoutSuccess)
	e.GET("/checkout/cancel", s.handleCheckoutCancel)

	admin := api.Group("/orders", auth.APIKeyAuth(s.storage))
	admin.GET("/:id", s.handleGetOrder)
	admin.GET("/:id/receipt", s.handleOrderReceipt)
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": s.config.Environment,
	})
}

// productsResponse bundles the product page with the collection list so the
// storefront grid and its filter bar render from one request.
type productsResponse struct {
	Products    []productView        `json:"products"`
	Collections []catalog.Collection `json:"collections"`
	NextCursor  string               `json:"nextCursor,omitempty"`
	HasNextPage bool                 `json:"hasNextPage"`
}

// productView is a catalog product with Cloudinary-resized image URLs.
type productView struct {
	catalog.Product
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (s *Service) handleProducts(c echo.Context) error {
	ctx := c.Request().Context()

	opts := catalog.ListOptions{
		Collection: c.QueryParam("collection"),
		Cursor:     c.QueryParam("cursor"),
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		opts.Limit = limit
	}

	// Fetch the product page and the collection list concurrently; both are
	// needed to render the grid.
	var (
		page        catalog.Page
		collections []catalog.Collection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.catalog.ListProducts(gctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		collections, err = s.catalog.ListCollections(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Collection not found")
		}
		slog.Error("failed to list products", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Catalog unavailable")
	}

	resp := productsResponse{
		Products:    make([]productView, 0, len(page.Products)),
		Collections: collections,
		NextCursor:  page.NextCursor,
		HasNextPage: page.HasNextPage,
	}
	for _, product := range page.Products {
		resp.Products = append(resp.Products, s.productView(product, 600))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Service) handleProduct(c echo.Context) error {
	product, err := s.catalog.GetProduct(c.Request().Context(), c.Param("handle"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		slog.Error("failed to get product", "handle", c.Param("handle"), "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Catalog unavailable")
	}
	return c.JSON(http.StatusOK, s.productView(product, 1200))
}

func (s *Service) handleCollections(c echo.Context) error {
	collections, err := s.catalog.ListCollections(c.Request().Context())
	if err != nil {
		slog.Error("failed to list collections", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "Catalog unavailable")
	}
	return c.JSON(http.StatusOK, map[string]any{"collections": collections})
}

// productView rewrites image URLs through Cloudinary at the given width.
func (s *Service) productView(product catalog.Product, width int) productView {
	view := productView{Product: product}
	if !s.images.Enabled() || len(product.Images) == 0 {
		if len(product.Images) > 0 {
			view.Thumbnail = product.Images[0].URL
		}
		return view
	}

	resized := make([]catalog.Image, len(product.Images))
	for i, img := range product.Images {
		resized[i] = catalog.Image{
			URL: s.images.FetchURL(img.URL, cloudinary.Transform{Width: width, Crop: "fit"}),
			Alt: img.Alt,
		}
	}
	view.Images = resized
	view.Thumbnail = s.images.FetchURL(product.Images[0].URL, cloudinary.Transform{Width: 320, Crop: "fill"})
	return view
}

func (s *Service) handleGetCart(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}
	current, err := s.carts.Get(c.Request().Context(), sessionID)
	if err != nil {
		slog.Error("failed to get cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load cart")
	}
	return c.JSON(http.StatusOK, current)
}

type addCartItemRequest struct {
	ProductHandle string `json:"product"`
	VariantID     string `json:"variant_id"`
	Quantity      int64  `json:"quantity"`
}

func (s *Service) handleAddCartItem(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ProductHandle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing product")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	current, err := s.carts.AddItem(c.Request().Context(), sessionID, req.ProductHandle, req.VariantID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrVariantUnavailable) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "Product variant is unavailable")
		}
		if errors.Is(err, cart.ErrInvalidQuantity) {
			return echo.NewHTTPError(http.StatusBadRequest, "Quantity must be positive")
		}
		slog.Error("failed to add cart item", "error", err, "product", req.ProductHandle)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add item")
	}
	return c.JSON(http.StatusOK, current)
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Service) handleUpdateCartItem(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	current, err := s.carts.UpdateItemQuantity(c.Request().Context(), sessionID, c.Param("id"), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		if errors.Is(err, cart.ErrInvalidQuantity) {
			return echo.NewHTTPError(http.StatusBadRequest, "Quantity must be positive")
		}
		slog.Error("failed to update cart item", "error", err, "item_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update item")
	}
	return c.JSON(http.StatusOK, current)
}

func (s *Service) handleRemoveCartItem(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}

	current, err := s.carts.RemoveItem(c.Request().Context(), sessionID, c.Param("id"))
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		slog.Error("failed to remove cart item", "error", err, "item_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove item")
	}
	return c.JSON(http.StatusOK, current)
}

func (s *Service) handleClearCart(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}
	if err := s.carts.Clear(c.Request().Context(), sessionID); err != nil {
		slog.Error("failed to clear cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear cart")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Service) handleCreatePaymentIntent(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}
	return s.paymentHandler.CreatePaymentIntent(c, sessionID)
}

func (s *Service) handleCompleteCheckout(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}
	return s.paymentHandler.CompleteCheckout(c, sessionID)
}

func (s *Service) handleCreateCheckoutSession(c echo.Context) error {
	sessionID, err := s.getOrCreateSessionID(c)
	if err != nil {
		return err
	}

	url, err := s.checkout.CreateHostedSession(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, checkout.ErrCartEmpty) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		slog.Error("failed to create stripe checkout session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create checkout session")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (s *Service) handleCheckoutSuccess(c echo.Context) error {
	ctx := c.Request().Context()
	stripeSessionID := c.QueryParam("session_id")
	if stripeSessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing session_id")
	}

	// The webhook usually records the order first. If it has not fired yet,
	// retrieve the session and record the order here; whichever path runs
	// first wins, the other finds the existing order.
	order, err := s.storage.Queries.GetOrderByStripeSessionID(ctx, sql.NullString{String: stripeSessionID, Valid: true})
	if err == sql.ErrNoRows {
		params := &stripego.CheckoutSessionParams{}
		params.AddExpand("line_items")
		session, err := checkoutsession.Get(stripeSessionID, params)
		if err != nil {
			slog.Error("failed to retrieve stripe session", "error", err, "stripe_session", stripeSessionID)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve checkout session")
		}

		order, err = s.checkout.RecordHostedCheckout(ctx, session)
		if err != nil {
			slog.Error("failed to record order from success page", "error", err, "stripe_session", stripeSessionID)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create order - please contact support")
		}
	} else if err != nil {
		slog.Error("failed to query order", "error", err, "stripe_session", stripeSessionID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve order")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"order_id": order.ID,
		"status":   order.Status,
	})
}

func (s *Service) handleCheckoutCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Service) handleGetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := s.storage.Queries.GetOrder(ctx, c.Param("id"))
	if err == sql.ErrNoRows {
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		slog.Error("failed to get order", "order_id", c.Param("id"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load order")
	}

	items, err := s.storage.Queries.GetOrderItems(ctx, order.ID)
	if err != nil {
		slog.Error("failed to get order items", "order_id", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load order")
	}

	return c.JSON(http.StatusOK, orderResponse(order, items))
}

func (s *Service) handleOrderReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	order, err := s.storage.Queries.GetOrder(ctx, c.Param("id"))
	if err == sql.ErrNoRows {
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		slog.Error("failed to get order", "order_id", c.Param("id"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load order")
	}

	items, err := s.storage.Queries.GetOrderItems(ctx, order.ID)
	if err != nil {
		slog.Error("failed to get order items", "order_id", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load order")
	}

	pdf, err := s.receipts.Render(order, items)
	if err != nil {
		slog.Error("failed to render receipt", "order_id", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// getOrCreateSessionID gets existing session ID or creates new one
func (s *Service) getOrCreateSessionID(c echo.Context) (string, error) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		sessionID := uuid.New().String()
		c.SetCookie(&http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   86400 * 30, // 30 days
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return sessionID, nil
	}
	return cookie.Value, nil
}
