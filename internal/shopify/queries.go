package shopify

// Storefront API queries. Variant and image page sizes are fixed: an art
// print has at most a few dozen size/frame combinations.

const productFields = `
	id
	handle
	title
	descriptionHtml
	vendor
	tags
	priceRange {
		minVariantPrice { amount currencyCode }
		maxVariantPrice { amount currencyCode }
	}
	images(first: 10) {
		edges { node { url altText } }
	}
	variants(first: 50) {
		edges {
			node {
				id
				title
				sku
				availableForSale
				price { amount currencyCode }
				selectedOptions { name value }
			}
		}
	}`

const listProductsQuery = `
query ListProducts($first: Int!, $after: String) {
	products(first: $first, after: $after) {
		edges {
			cursor
			node {` + productFields + `
			}
		}
		pageInfo { hasNextPage }
	}
}`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
	productByHandle(handle: $handle) {` + productFields + `
	}
}`

const listCollectionsQuery = `
query ListCollections($first: Int!) {
	collections(first: $first) {
		edges {
			node { id handle title description }
		}
	}
}`

const collectionProductsQuery = `
query CollectionProducts($handle: String!, $first: Int!, $after: String) {
	collectionByHandle(handle: $handle) {
		products(first: $first, after: $after) {
			edges {
				cursor
				node {` + productFields + `
				}
			}
			pageInfo { hasNextPage }
		}
	}
}`

// Admin API mutations used by headless checkout: the draft order is created
// with the cart's line items and completed as paid, since Stripe already
// captured the payment.

const draftOrderCreateMutation = `
mutation DraftOrderCreate($input: DraftOrderInput!) {
	draftOrderCreate(input: $input) {
		draftOrder { id }
		userErrors { field message }
	}
}`

const draftOrderCompleteMutation = `
mutation DraftOrderComplete($id: ID!) {
	draftOrderComplete(id: $id, paymentPending: false) {
		draftOrder {
			id
			order { id name }
		}
		userErrors { field message }
	}
}`
