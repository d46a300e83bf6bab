package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned for unknown product handles, variant ids, and
// collection handles regardless of which provider backs the catalog.
var ErrNotFound = errors.New("catalog: not found")

// Money is an amount in integer minor units. Prices never touch floats.
type Money struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Variant is a purchasable combination of product options, e.g. a print in
// a particular size and frame.
type Variant struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	SKU       string            `json:"sku,omitempty"`
	Price     Money             `json:"price"`
	Available bool              `json:"available"`
	Options   map[string]string `json:"options,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PriceMin    Money     `json:"priceMin"`
	PriceMax    Money     `json:"priceMax"`
	Images      []Image   `json:"images,omitempty"`
	Variants    []Variant `json:"variants"`
}

// Variant returns the variant with the given id. An empty id selects the
// only variant of a single-variant product.
func (p Product) Variant(id string) (Variant, bool) {
	if id == "" && len(p.Variants) == 1 {
		return p.Variants[0], true
	}
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type Collection struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Page is one page of a product listing.
type Page struct {
	Products    []Product `json:"products"`
	NextCursor  string    `json:"nextCursor,omitempty"`
	HasNextPage bool      `json:"hasNextPage"`
}

// ListOptions narrow a product listing. Collection is a collection handle;
// empty means all products.
type ListOptions struct {
	Collection string
	Limit      int
	Cursor     string
}

const DefaultPageSize = 24

// Provider is the catalog backend. Implementations: the Shopify Storefront
// API and a local JSON file.
type Provider interface {
	ListProducts(ctx context.Context, opts ListOptions) (Page, error)
	GetProduct(ctx context.Context, handle string) (Product, error)
	ListCollections(ctx context.Context) ([]Collection, error)
}

// ParseAmount converts a decimal amount string like "45" or "45.50" to
// integer cents. Parsing digit-wise avoids float rounding on prices.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		frac = frac[:2]
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	total := dollars*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// FormatAmount renders integer cents as a decimal string, e.g. 4550 ->
// "45.50". Used when sending prices back to Shopify.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
