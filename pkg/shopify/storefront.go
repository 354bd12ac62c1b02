package shopify

import (
	"context"
	"strings"

	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

const cartCreateMutation = `
mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
      totalQuantity
    }
    userErrors {
      field
      message
    }
  }
}`

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      id
      checkoutUrl
      totalQuantity
    }
    userErrors {
      field
      message
    }
  }
}`

// LineAttribute is one key/value pair shown on the cart line. Order is
// preserved end to end because the storefront renders attributes as sent.
type LineAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput describes one line to attach to a cart.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
	Attributes    []LineAttribute
}

// Cart is the storefront cart state after a mutation.
type Cart struct {
	ID            string
	CheckoutURL   string
	TotalQuantity int
}

type cartPayload struct {
	Cart *struct {
		ID            string `json:"id"`
		CheckoutURL   string `json:"checkoutUrl"`
		TotalQuantity int    `json:"totalQuantity"`
	} `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

func (p cartPayload) toCart(op string) (*Cart, error) {
	if len(p.UserErrors) > 0 {
		msgs := UserErrorMessages(p.UserErrors)
		return nil, pkgerrors.New(pkgerrors.CodeCartAttachment, op+" rejected").
			WithDetails(map[string]any{"user_errors": msgs})
	}
	if p.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCartAttachment, op+" returned no cart")
	}
	return &Cart{
		ID:            p.Cart.ID,
		CheckoutURL:   p.Cart.CheckoutURL,
		TotalQuantity: p.Cart.TotalQuantity,
	}, nil
}

func lineVariables(line CartLineInput) map[string]any {
	attrs := make([]map[string]string, 0, len(line.Attributes))
	for _, a := range line.Attributes {
		attrs = append(attrs, map[string]string{"key": a.Key, "value": a.Value})
	}
	return map[string]any{
		"merchandiseId": line.MerchandiseID,
		"quantity":      line.Quantity,
		"attributes":    attrs,
	}
}

// CartCreate opens a new cart seeded with the given line.
func (c *Client) CartCreate(ctx context.Context, line CartLineInput) (*Cart, error) {
	variables := map[string]any{
		"input": map[string]any{
			"lines": []map[string]any{lineVariables(line)},
		},
	}

	var out struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := c.doStorefront(ctx, "cart_create", cartCreateMutation, variables, &out); err != nil {
		return nil, err
	}
	return out.CartCreate.toCart("cart create")
}

// CartLinesAdd appends the line to an existing cart identified by the
// session's cart id.
func (c *Client) CartLinesAdd(ctx context.Context, cartID string, line CartLineInput) (*Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "cart id is required")
	}

	variables := map[string]any{
		"cartId": cartID,
		"lines":  []map[string]any{lineVariables(line)},
	}

	var out struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	if err := c.doStorefront(ctx, "cart_lines_add", cartLinesAddMutation, variables, &out); err != nil {
		return nil, err
	}
	return out.CartLinesAdd.toCart("cart lines add")
}
