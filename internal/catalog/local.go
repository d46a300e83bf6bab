package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// LocalProvider serves the catalog from a JSON file on disk. It exists so
// the storefront can run without a Shopify shop: demos, development, and
// the local-catalog deployment variant.
type LocalProvider struct {
	products    []Product
	byHandle    map[string]Product
	collections []Collection
	membership  map[string][]string // collection handle -> product handles
}

// localCatalogFile is the on-disk shape of the catalog file.
type localCatalogFile struct {
	Products    []Product `json:"products"`
	Collections []struct {
		Collection
		ProductHandles []string `json:"productHandles"`
	} `json:"collections"`
}

// NewLocalProvider loads the catalog file once at startup; the catalog is
// immutable afterwards.
func NewLocalProvider(path string) (*LocalProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return newLocalProviderFromBytes(data)
}

func newLocalProviderFromBytes(data []byte) (*LocalProvider, error) {
	var file localCatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	p := &LocalProvider{
		products:   file.Products,
		byHandle:   make(map[string]Product, len(file.Products)),
		membership: make(map[string][]string, len(file.Collections)),
	}
	for _, product := range file.Products {
		if product.Handle == "" {
			return nil, fmt.Errorf("product %q has no handle", product.Title)
		}
		if _, dup := p.byHandle[product.Handle]; dup {
			return nil, fmt.Errorf("duplicate product handle %q", product.Handle)
		}
		p.byHandle[product.Handle] = product
	}
	for _, c := range file.Collections {
		p.collections = append(p.collections, c.Collection)
		p.membership[c.Handle] = c.ProductHandles
	}
	sort.Slice(p.collections, func(i, j int) bool {
		return p.collections[i].Handle < p.collections[j].Handle
	})

	return p, nil
}

func (p *LocalProvider) ListProducts(_ context.Context, opts ListOptions) (Page, error) {
	products := p.products
	if opts.Collection != "" {
		handles, ok := p.membership[opts.Collection]
		if !ok {
			return Page{}, ErrNotFound
		}
		products = make([]Product, 0, len(handles))
		for _, handle := range handles {
			if product, ok := p.byHandle[handle]; ok {
				products = append(products, product)
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	// The cursor is the offset into the (stable) product slice.
	offset := 0
	if opts.Cursor != "" {
		parsed, err := strconv.Atoi(opts.Cursor)
		if err != nil || parsed < 0 {
			return Page{}, fmt.Errorf("invalid cursor %q", opts.Cursor)
		}
		offset = parsed
	}
	if offset > len(products) {
		offset = len(products)
	}

	end := offset + limit
	if end > len(products) {
		end = len(products)
	}

	page := Page{
		Products:    products[offset:end],
		HasNextPage: end < len(products),
	}
	if page.HasNextPage {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (p *LocalProvider) GetProduct(_ context.Context, handle string) (Product, error) {
	product, ok := p.byHandle[handle]
	if !ok {
		return Product{}, ErrNotFound
	}
	return product, nil
}

func (p *LocalProvider) ListCollections(_ context.Context) ([]Collection, error) {
	return p.collections, nil
}
