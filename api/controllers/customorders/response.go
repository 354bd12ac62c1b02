package customorders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/internal/orders"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

type quotePayload struct {
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	UnitWeightKg  decimal.Decimal `json:"unitWeightKg"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalWeightKg decimal.Decimal `json:"totalWeightKg"`
	Quantity      int             `json:"quantity"`
}

type variantPayload struct {
	VariantID string `json:"variantId"`
	Title     string `json:"title"`
	Reused    bool   `json:"reused"`
}

type cartPayload struct {
	CartID        string                  `json:"cartId"`
	CheckoutURL   string                  `json:"checkoutUrl,omitempty"`
	TotalQuantity int                     `json:"totalQuantity"`
	NewCart       bool                    `json:"newCart"`
	Attributes    []shopify.LineAttribute `json:"attributes"`
}

type submitPayload struct {
	Status          string         `json:"status"`
	Quote           quotePayload   `json:"quote"`
	VariantCreation variantPayload `json:"variantCreation"`
	CartOperation   cartPayload    `json:"cartOperation"`
	Timestamp       time.Time      `json:"timestamp"`
}

type quoteResponsePayload struct {
	Status    string       `json:"status"`
	Quote     quotePayload `json:"quote"`
	Timestamp time.Time    `json:"timestamp"`
}

func newQuotePayload(quote orders.Quote) quotePayload {
	return quotePayload{
		UnitPrice:     quote.UnitPrice,
		UnitWeightKg:  quote.UnitWeightKg,
		TotalPrice:    quote.TotalPrice,
		TotalWeightKg: quote.TotalWeightKg,
		Quantity:      quote.Quantity,
	}
}

func newSubmitPayload(result *orders.Result) submitPayload {
	return submitPayload{
		Status: "success",
		Quote:  newQuotePayload(result.Quote),
		VariantCreation: variantPayload{
			VariantID: result.VariantID,
			Title:     result.Discriminator,
			Reused:    result.VariantReused,
		},
		CartOperation: cartPayload{
			CartID:        result.CartID,
			CheckoutURL:   result.CheckoutURL,
			TotalQuantity: result.TotalQuantity,
			NewCart:       result.NewCart,
			Attributes:    result.Attributes,
		},
		Timestamp: time.Now().UTC(),
	}
}

func newQuoteResponsePayload(quote *orders.Quote) quoteResponsePayload {
	return quoteResponsePayload{
		Status:    "success",
		Quote:     newQuotePayload(*quote),
		Timestamp: time.Now().UTC(),
	}
}
