package shopify

import (
	"context"
	"fmt"
)

// Storefront exposes the read side of the shop catalog.
type Storefront struct {
	client *Client
}

func NewStorefront(client *Client) *Storefront {
	return &Storefront{client: client}
}

// ListProducts returns one page of published products. An empty cursor
// starts from the beginning.
func (s *Storefront) ListProducts(ctx context.Context, first int, after string) (ProductPage, error) {
	variables := map[string]any{"first": first}
	if after != "" {
		variables["after"] = after
	}

	var result struct {
		Products productConnection `json:"products"`
	}
	if err := s.client.Query(ctx, listProductsQuery, variables, &result); err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}

	return connectionToPage(result.Products), nil
}

// GetProductByHandle fetches a single product. Returns ErrNotFound when the
// handle does not resolve to a published product.
func (s *Storefront) GetProductByHandle(ctx context.Context, handle string) (ProductNode, error) {
	var result struct {
		ProductByHandle *ProductNode `json:"productByHandle"`
	}
	if err := s.client.Query(ctx, productByHandleQuery, map[string]any{"handle": handle}, &result); err != nil {
		return ProductNode{}, fmt.Errorf("product by handle %q: %w", handle, err)
	}
	if result.ProductByHandle == nil {
		return ProductNode{}, ErrNotFound
	}
	return *result.ProductByHandle, nil
}

// ListCollections returns all storefront collections.
func (s *Storefront) ListCollections(ctx context.Context, first int) ([]CollectionNode, error) {
	var result struct {
		Collections struct {
			Edges []struct {
				Node CollectionNode `json:"node"`
			} `json:"edges"`
		} `json:"collections"`
	}
	if err := s.client.Query(ctx, listCollectionsQuery, map[string]any{"first": first}, &result); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	collections := make([]CollectionNode, 0, len(result.Collections.Edges))
	for _, edge := range result.Collections.Edges {
		collections = append(collections, edge.Node)
	}
	return collections, nil
}

// ListCollectionProducts returns one page of products in a collection.
// Returns ErrNotFound for an unknown collection handle.
func (s *Storefront) ListCollectionProducts(ctx context.Context, handle string, first int, after string) (ProductPage, error) {
	variables := map[string]any{"handle": handle, "first": first}
	if after != "" {
		variables["after"] = after
	}

	var result struct {
		CollectionByHandle *struct {
			Products productConnection `json:"products"`
		} `json:"collectionByHandle"`
	}
	if err := s.client.Query(ctx, collectionProductsQuery, variables, &result); err != nil {
		return ProductPage{}, fmt.Errorf("collection products %q: %w", handle, err)
	}
	if result.CollectionByHandle == nil {
		return ProductPage{}, ErrNotFound
	}
	return connectionToPage(result.CollectionByHandle.Products), nil
}

func connectionToPage(conn productConnection) ProductPage {
	page := ProductPage{
		Products:    make([]ProductNode, 0, len(conn.Edges)),
		HasNextPage: conn.PageInfo.HasNextPage,
	}
	for _, edge := range conn.Edges {
		page.Products = append(page.Products, edge.Node)
		page.EndCursor = edge.Cursor
	}
	return page
}
