package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Admin creates orders in Shopify for payments processed outside Shopify's
// own checkout. The flow is draftOrderCreate followed by draftOrderComplete;
// the completed draft becomes a regular Shopify order.
type Admin struct {
	client *Client
}

func NewAdmin(client *Client) *Admin {
	return &Admin{client: client}
}

// CreateDraftOrder creates a draft order and returns its GID.
// Shopify userErrors surface as *ValidationError.
func (a *Admin) CreateDraftOrder(ctx context.Context, input DraftOrderInput) (string, error) {
	var result struct {
		DraftOrderCreate struct {
			DraftOrder struct {
				ID string `json:"id"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}

	variables := map[string]any{"input": input}
	if err := a.client.Mutate(ctx, draftOrderCreateMutation, variables, &result); err != nil {
		return "", fmt.Errorf("draftOrderCreate: %w", err)
	}
	if err := userErrorsToErr(result.DraftOrderCreate.UserErrors); err != nil {
		return "", err
	}
	if result.DraftOrderCreate.DraftOrder.ID == "" {
		return "", fmt.Errorf("draftOrderCreate: empty draft order id")
	}
	return result.DraftOrderCreate.DraftOrder.ID, nil
}

// CompleteDraftOrder marks a draft order as paid and returns the GID and
// display name of the resulting order.
func (a *Admin) CompleteDraftOrder(ctx context.Context, draftOrderGID string) (orderGID, orderName string, err error) {
	var result struct {
		DraftOrderComplete struct {
			DraftOrder struct {
				ID    string `json:"id"`
				Order struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"order"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderComplete"`
	}

	variables := map[string]any{"id": draftOrderGID}
	if err := a.client.Mutate(ctx, draftOrderCompleteMutation, variables, &result); err != nil {
		return "", "", fmt.Errorf("draftOrderComplete: %w", err)
	}
	if err := userErrorsToErr(result.DraftOrderComplete.UserErrors); err != nil {
		return "", "", err
	}

	order := result.DraftOrderComplete.DraftOrder.Order
	if order.ID == "" {
		return "", "", fmt.Errorf("draftOrderComplete: draft %s completed without an order", draftOrderGID)
	}
	return order.ID, strings.TrimPrefix(order.Name, "#"), nil
}

// ExtractIDFromGID parses the trailing numeric id from a Shopify GID such as
// "gid://shopify/DraftOrder/123456".
func ExtractIDFromGID(gid string) (int64, error) {
	parts := strings.Split(gid, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID: %w", err)
	}
	return id, nil
}
