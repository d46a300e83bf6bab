// Package cart implements the server-side shopping cart. Carts are keyed by
// an opaque session id held in a cookie and persisted in SQLite, so the cart
// survives page reloads and browser restarts without any customer account.
package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meridianprints/storefront/internal/catalog"
	"github.com/meridianprints/storefront/storage/db"
)

// ErrItemNotFound is returned for operations on unknown cart item ids.
var ErrItemNotFound = errors.New("cart: item not found")

// ErrVariantUnavailable is returned when the requested product variant does
// not exist or is not available for sale.
var ErrVariantUnavailable = errors.New("cart: variant unavailable")

// ErrInvalidQuantity is returned when a quantity is not a positive number.
var ErrInvalidQuantity = errors.New("cart: invalid quantity")

// Item is a cart line as served to the client.
type Item struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId,omitempty"`
	Title          string `json:"title"`
	VariantTitle   string `json:"variantTitle,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Currency       string `json:"currency"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Quantity       int64  `json:"quantity"`
	TotalCents     int64  `json:"totalCents"`
}

// Cart is the full cart view: items plus the aggregated subtotal.
type Cart struct {
	SessionID     string `json:"-"`
	Items         []Item `json:"items"`
	SubtotalCents int64  `json:"subtotalCents"`
	Currency      string `json:"currency"`
	ItemCount     int64  `json:"itemCount"`
}

// Service owns cart state. Prices and titles are snapshotted from the
// catalog at add time; the subtotal is recomputed from quantities on read.
type Service struct {
	queries *db.Queries
	catalog catalog.Provider
}

func NewService(queries *db.Queries, provider catalog.Provider) *Service {
	return &Service{queries: queries, catalog: provider}
}

// Get returns the cart for a session. A session with no cart yet gets an
// empty cart without touching the database.
func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	out := Cart{SessionID: sessionID, Items: []Item{}, Currency: "USD"}

	dbCart, err := s.queries.GetCartBySession(ctx, sessionID)
	if err == sql.ErrNoRows {
		return out, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}

	items, err := s.queries.ListCartItems(ctx, dbCart.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("list cart items: %w", err)
	}

	for _, item := range items {
		lineTotal := item.UnitPriceCents * item.Quantity
		out.Items = append(out.Items, Item{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Title:          item.Title,
			VariantTitle:   item.VariantTitle.String,
			UnitPriceCents: item.UnitPriceCents,
			Currency:       item.Currency,
			ImageURL:       item.ImageUrl.String,
			Quantity:       item.Quantity,
			TotalCents:     lineTotal,
		})
		out.ItemCount += item.Quantity
		out.Currency = item.Currency
	}

	// The subtotal comes from the database aggregate, not from re-summing the
	// rows here.
	out.SubtotalCents, err = s.queries.GetCartTotalCents(ctx, dbCart.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("cart total: %w", err)
	}
	return out, nil
}

// AddItem adds quantity of a product variant to the session's cart. The
// variant is validated against the catalog and its price snapshotted. Item
// identity is (cart, product, variant): adding the same variant again
// increments the existing row instead of creating a duplicate.
func (s *Service) AddItem(ctx context.Context, sessionID, productHandle, variantID string, quantity int64) (Cart, error) {
	if quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, productHandle)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Cart{}, ErrVariantUnavailable
		}
		return Cart{}, fmt.Errorf("resolve product: %w", err)
	}

	variant, ok := product.Variant(variantID)
	if !ok || !variant.Available {
		return Cart{}, ErrVariantUnavailable
	}

	dbCart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	existing, err := s.queries.GetExistingCartItem(ctx, db.GetExistingCartItemParams{
		CartID:    dbCart.ID,
		ProductID: product.ID,
		VariantID: variant.ID,
	})
	if err == nil {
		// Same product+variant already in the cart: bump quantity.
		err = s.queries.UpdateCartItemQuantity(ctx, db.UpdateCartItemQuantityParams{
			Quantity: existing.Quantity + quantity,
			ID:       existing.ID,
		})
		if err != nil {
			return Cart{}, fmt.Errorf("update cart item quantity: %w", err)
		}
	} else if err == sql.ErrNoRows {
		imageURL := ""
		if len(product.Images) > 0 {
			imageURL = product.Images[0].URL
		}
		_, err = s.queries.AddCartItem(ctx, db.AddCartItemParams{
			ID:             uuid.New().String(),
			CartID:         dbCart.ID,
			ProductID:      product.ID,
			VariantID:      variant.ID,
			Title:          product.Title,
			VariantTitle:   nullString(variant.Title),
			UnitPriceCents: variant.Price.Cents,
			Currency:       variant.Price.Currency,
			ImageUrl:       nullString(imageURL),
			Quantity:       quantity,
		})
		if err != nil {
			return Cart{}, fmt.Errorf("add cart item: %w", err)
		}
	} else {
		return Cart{}, fmt.Errorf("lookup cart item: %w", err)
	}

	if err := s.queries.TouchCart(ctx, dbCart.ID); err != nil {
		slog.Warn("failed to touch cart", "cart_id", dbCart.ID, "error", err)
	}

	return s.Get(ctx, sessionID)
}

// UpdateItemQuantity sets the quantity of a cart item. Zero removes the item.
func (s *Service) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, quantity int64) (Cart, error) {
	if quantity < 0 {
		return Cart{}, ErrInvalidQuantity
	}

	if _, err := s.ownedItem(ctx, sessionID, itemID); err != nil {
		return Cart{}, err
	}

	if quantity == 0 {
		if err := s.queries.RemoveCartItem(ctx, itemID); err != nil {
			return Cart{}, fmt.Errorf("remove cart item: %w", err)
		}
	} else {
		err := s.queries.UpdateCartItemQuantity(ctx, db.UpdateCartItemQuantityParams{
			Quantity: quantity,
			ID:       itemID,
		})
		if err != nil {
			return Cart{}, fmt.Errorf("update cart item: %w", err)
		}
	}

	return s.Get(ctx, sessionID)
}

// RemoveItem deletes a cart item.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (Cart, error) {
	if _, err := s.ownedItem(ctx, sessionID, itemID); err != nil {
		return Cart{}, err
	}
	if err := s.queries.RemoveCartItem(ctx, itemID); err != nil {
		return Cart{}, fmt.Errorf("remove cart item: %w", err)
	}
	return s.Get(ctx, sessionID)
}

// Clear empties the session's cart and drops the cart row itself; the next
// add starts a fresh cart. Clearing a nonexistent cart is a no-op.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	dbCart, err := s.queries.GetCartBySession(ctx, sessionID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	if err := s.queries.ClearCart(ctx, dbCart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if err := s.queries.DeleteCart(ctx, dbCart.ID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// SweepStale deletes carts untouched for 30 days. Returns the number of
// carts removed.
func (s *Service) SweepStale(ctx context.Context) (int64, error) {
	return s.queries.DeleteStaleCarts(ctx)
}

// StartSweeper runs SweepStale on an interval until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.SweepStale(ctx)
				if err != nil {
					slog.Error("cart sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Info("swept stale carts", "removed", removed)
				}
			}
		}
	}()
}

// ownedItem fetches an item and verifies it belongs to the session's cart,
// so one session cannot mutate another session's cart by guessing item ids.
func (s *Service) ownedItem(ctx context.Context, sessionID, itemID string) (db.CartItem, error) {
	item, err := s.queries.GetCartItem(ctx, itemID)
	if err == sql.ErrNoRows {
		return db.CartItem{}, ErrItemNotFound
	}
	if err != nil {
		return db.CartItem{}, fmt.Errorf("get cart item: %w", err)
	}

	dbCart, err := s.queries.GetCartBySession(ctx, sessionID)
	if err == sql.ErrNoRows || (err == nil && dbCart.ID != item.CartID) {
		return db.CartItem{}, ErrItemNotFound
	}
	if err != nil {
		return db.CartItem{}, fmt.Errorf("get cart: %w", err)
	}
	return item, nil
}

func (s *Service) getOrCreateCart(ctx context.Context, sessionID string) (db.Cart, error) {
	dbCart, err := s.queries.GetCartBySession(ctx, sessionID)
	if err == nil {
		return dbCart, nil
	}
	if err != sql.ErrNoRows {
		return db.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	dbCart, err = s.queries.CreateCart(ctx, db.CreateCartParams{
		ID:        uuid.New().String(),
		SessionID: sessionID,
	})
	if err != nil {
		return db.Cart{}, fmt.Errorf("create cart: %w", err)
	}
	return dbCart, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
