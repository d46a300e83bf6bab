package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridianprints/storefront/internal/shopify"
)

// ShopifyProvider serves the catalog from the Shopify Storefront API.
type ShopifyProvider struct {
	storefront *shopify.Storefront
}

func NewShopifyProvider(storefront *shopify.Storefront) *ShopifyProvider {
	return &ShopifyProvider{storefront: storefront}
}

func (p *ShopifyProvider) ListProducts(ctx context.Context, opts ListOptions) (Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var (
		page shopify.ProductPage
		err  error
	)
	if opts.Collection != "" {
		page, err = p.storefront.ListCollectionProducts(ctx, opts.Collection, limit, opts.Cursor)
	} else {
		page, err = p.storefront.ListProducts(ctx, limit, opts.Cursor)
	}
	if err != nil {
		if errors.Is(err, shopify.ErrNotFound) {
			return Page{}, ErrNotFound
		}
		return Page{}, err
	}

	out := Page{
		Products:    make([]Product, 0, len(page.Products)),
		NextCursor:  page.EndCursor,
		HasNextPage: page.HasNextPage,
	}
	for _, node := range page.Products {
		product, err := productFromNode(node)
		if err != nil {
			// A malformed price on one product should not take down the
			// whole grid.
			slog.Warn("skipping product with invalid data", "handle", node.Handle, "error", err)
			continue
		}
		out.Products = append(out.Products, product)
	}
	return out, nil
}

func (p *ShopifyProvider) GetProduct(ctx context.Context, handle string) (Product, error) {
	node, err := p.storefront.GetProductByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, shopify.ErrNotFound) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return productFromNode(node)
}

func (p *ShopifyProvider) ListCollections(ctx context.Context) ([]Collection, error) {
	nodes, err := p.storefront.ListCollections(ctx, 50)
	if err != nil {
		return nil, err
	}

	collections := make([]Collection, 0, len(nodes))
	for _, node := range nodes {
		collections = append(collections, Collection{
			ID:          node.ID,
			Handle:      node.Handle,
			Title:       node.Title,
			Description: node.Description,
		})
	}
	return collections, nil
}

func productFromNode(node shopify.ProductNode) (Product, error) {
	minCents, err := ParseAmount(node.PriceRange.MinVariantPrice.Amount)
	if err != nil {
		return Product{}, fmt.Errorf("product %s min price: %w", node.Handle, err)
	}
	maxCents, err := ParseAmount(node.PriceRange.MaxVariantPrice.Amount)
	if err != nil {
		return Product{}, fmt.Errorf("product %s max price: %w", node.Handle, err)
	}

	product := Product{
		ID:          node.ID,
		Handle:      node.Handle,
		Title:       node.Title,
		Description: node.DescriptionHTML,
		Vendor:      node.Vendor,
		Tags:        node.Tags,
		PriceMin:    Money{Cents: minCents, Currency: node.PriceRange.MinVariantPrice.CurrencyCode},
		PriceMax:    Money{Cents: maxCents, Currency: node.PriceRange.MaxVariantPrice.CurrencyCode},
	}

	for _, edge := range node.Images.Edges {
		product.Images = append(product.Images, Image{URL: edge.Node.URL, Alt: edge.Node.AltText})
	}

	for _, edge := range node.Variants.Edges {
		v := edge.Node
		priceCents, err := ParseAmount(v.Price.Amount)
		if err != nil {
			return Product{}, fmt.Errorf("variant %s price: %w", v.ID, err)
		}

		variant := Variant{
			ID:        v.ID,
			Title:     v.Title,
			SKU:       v.SKU,
			Price:     Money{Cents: priceCents, Currency: v.Price.CurrencyCode},
			Available: v.AvailableForSale,
		}
		if len(v.SelectedOptions) > 0 {
			variant.Options = make(map[string]string, len(v.SelectedOptions))
			for _, opt := range v.SelectedOptions {
				variant.Options[opt.Name] = opt.Value
			}
		}
		product.Variants = append(product.Variants, variant)
	}

	return product, nil
}
