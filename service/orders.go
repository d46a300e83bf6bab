package service

import (
	"time"

	"github.com/meridianprints/storefront/internal/shopify"
	"github.com/meridianprints/storefront/storage/db"
)

// orderView is the admin API shape of an order.
type orderView struct {
	ID                string          `json:"id"`
	CustomerEmail     string          `json:"customerEmail"`
	CustomerName      string          `json:"customerName,omitempty"`
	SubtotalCents     int64           `json:"subtotalCents"`
	ShippingCents     int64           `json:"shippingCents"`
	TaxCents          int64           `json:"taxCents"`
	TotalCents        int64           `json:"totalCents"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	StripePaymentID   string          `json:"stripePaymentIntentId,omitempty"`
	StripeSessionID   string          `json:"stripeCheckoutSessionId,omitempty"`
	ShopifyOrderGID   string          `json:"shopifyOrderGid,omitempty"`
	ShopifyOrderID    int64           `json:"shopifyOrderId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	Items             []orderItemView `json:"items"`
}

type orderItemView struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	VariantID      string `json:"variantId,omitempty"`
	Title          string `json:"title"`
	VariantTitle   string `json:"variantTitle,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int64  `json:"quantity"`
	TotalCents     int64  `json:"totalCents"`
}

func orderResponse(order db.Order, items []db.OrderItem) orderView {
	view := orderView{
		ID:              order.ID,
		CustomerEmail:   order.CustomerEmail,
		CustomerName:    order.CustomerName.String,
		SubtotalCents:   order.SubtotalCents,
		ShippingCents:   order.ShippingCents,
		TaxCents:        order.TaxCents,
		TotalCents:      order.TotalCents,
		Currency:        order.Currency,
		Status:          order.Status,
		StripePaymentID: order.StripePaymentIntentID.String,
		StripeSessionID: order.StripeCheckoutSessionID.String,
		ShopifyOrderGID: order.ShopifyOrderGid.String,
		CreatedAt:       order.CreatedAt,
		Items:           make([]orderItemView, 0, len(items)),
	}
	// The bare numeric id is what ops paste into the Shopify admin search.
	if order.ShopifyOrderGid.Valid {
		if id, err := shopify.ExtractIDFromGID(order.ShopifyOrderGid.String); err == nil {
			view.ShopifyOrderID = id
		}
	}
	for _, item := range items {
		view.Items = append(view.Items, orderItemView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID.String,
			Title:          item.Title,
			VariantTitle:   item.VariantTitle.String,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents,
		})
	}
	return view
}
