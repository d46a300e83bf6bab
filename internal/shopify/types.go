package shopify

// Wire types for the Storefront API. Connections use the edges/node shape
// GraphQL relay pagination prescribes.

type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type ImageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type VariantNode struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	SKU              string           `json:"sku"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            MoneyV2          `json:"price"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

type ProductNode struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
	Vendor          string `json:"vendor"`
	Tags            []string `json:"tags"`
	PriceRange      struct {
		MinVariantPrice MoneyV2 `json:"minVariantPrice"`
		MaxVariantPrice MoneyV2 `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Images struct {
		Edges []struct {
			Node ImageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node VariantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productConnection struct {
	Edges []struct {
		Cursor string      `json:"cursor"`
		Node   ProductNode `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool `json:"hasNextPage"`
	} `json:"pageInfo"`
}

type CollectionNode struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products    []ProductNode
	EndCursor   string
	HasNextPage bool
}

// Input types for Admin API draft order mutations.

type DraftOrderLineItemInput struct {
	VariantID         *string `json:"variantId,omitempty"`
	Title             *string `json:"title,omitempty"`
	OriginalUnitPrice *string `json:"originalUnitPrice,omitempty"`
	Quantity          int64   `json:"quantity"`
}

type MailingAddressInput struct {
	Address1  string  `json:"address1"`
	Address2  *string `json:"address2,omitempty"`
	City      string  `json:"city"`
	Province  *string `json:"province,omitempty"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type DraftOrderInput struct {
	LineItems       []DraftOrderLineItemInput `json:"lineItems"`
	Email           *string                   `json:"email,omitempty"`
	ShippingAddress *MailingAddressInput      `json:"shippingAddress,omitempty"`
	Tags            []string                  `json:"tags,omitempty"`
	Note            *string                   `json:"note,omitempty"`
}
