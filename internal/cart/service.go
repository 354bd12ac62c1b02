// Package cart attaches provisioned variants to the shopper's cart with the
// human-readable option summary rendered as line attributes.
package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/internal/units"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

// Client is the slice of the storefront client this service needs.
type Client interface {
	CartCreate(ctx context.Context, line shopify.CartLineInput) (*shopify.Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, line shopify.CartLineInput) (*shopify.Cart, error)
}

// AttachRequest describes the line to add. CartID is the session's existing
// cart; when empty a new cart is opened and its id becomes the session token.
type AttachRequest struct {
	CartID    string
	VariantID string
	Quantity  int

	FormType    enums.FormType
	ThicknessMm decimal.Decimal
	DiameterMm  decimal.Decimal
	LengthMm    decimal.Decimal
	LengthM     decimal.Decimal
	WidthMm     decimal.Decimal

	Precision    enums.Precision
	Instructions string
}

// Attachment is the cart state after the line was added. CartID doubles as
// the session-binding token returned to the storefront.
type Attachment struct {
	CartID        string
	CheckoutURL   string
	TotalQuantity int
	NewCart       bool
	Attributes    []shopify.LineAttribute
}

type Service interface {
	Attach(ctx context.Context, req AttachRequest) (*Attachment, error)
}

type service struct {
	client Client
	logger *logger.Logger
}

func NewService(client Client, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, errors.New("cart: storefront client is required")
	}
	if logg == nil {
		return nil, errors.New("cart: logger is required")
	}
	return &service{client: client, logger: logg}, nil
}

func (s *service) Attach(ctx context.Context, req AttachRequest) (*Attachment, error) {
	if strings.TrimSpace(req.VariantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "variant id is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "quantity must be at least 1")
	}

	line := shopify.CartLineInput{
		MerchandiseID: req.VariantID,
		Quantity:      req.Quantity,
		Attributes:    BuildAttributes(req),
	}

	var (
		cart    *shopify.Cart
		newCart bool
		err     error
	)
	if strings.TrimSpace(req.CartID) == "" {
		cart, err = s.client.CartCreate(ctx, line)
		newCart = true
	} else {
		cart, err = s.client.CartLinesAdd(ctx, req.CartID, line)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.logger.WithFields(s.logger.WithCartID(ctx, cart.ID), map[string]any{
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
		"new_cart":   newCart,
	}), "cart line attached")

	return &Attachment{
		CartID:        cart.ID,
		CheckoutURL:   cart.CheckoutURL,
		TotalQuantity: cart.TotalQuantity,
		NewCart:       newCart,
		Attributes:    line.Attributes,
	}, nil
}

// BuildAttributes renders the ordered option summary for the cart line.
// Order is fixed: dimension first, then length and width with both units,
// then precision, then instructions. The storefront renders attributes as
// received, so order matters here.
func BuildAttributes(req AttachRequest) []shopify.LineAttribute {
	attrs := make([]shopify.LineAttribute, 0, 5)

	switch req.FormType {
	case enums.FormTypeRod:
		if req.DiameterMm.Sign() > 0 {
			attrs = append(attrs, shopify.LineAttribute{
				Key:   "Diameter",
				Value: req.DiameterMm.String() + "mm",
			})
		}
	default:
		if req.ThicknessMm.Sign() > 0 {
			attrs = append(attrs, shopify.LineAttribute{
				Key:   "Thickness",
				Value: req.ThicknessMm.String() + "mm",
			})
		}
	}

	if req.FormType.LengthInMeters() {
		attrs = append(attrs, shopify.LineAttribute{
			Key:   "Length",
			Value: units.FormatDual(req.LengthM, units.MeterYard),
		})
	} else {
		attrs = append(attrs, shopify.LineAttribute{
			Key:   "Length",
			Value: units.FormatDual(req.LengthMm, units.MillimeterInch),
		})
	}

	if req.FormType.UsesWidth() && req.WidthMm.Sign() > 0 {
		attrs = append(attrs, shopify.LineAttribute{
			Key:   "Width",
			Value: units.FormatDual(req.WidthMm, units.MillimeterInch),
		})
	}

	if req.Precision != "" {
		attrs = append(attrs, shopify.LineAttribute{
			Key:   "Precision",
			Value: req.Precision.String(),
		})
	}

	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		attrs = append(attrs, shopify.LineAttribute{
			Key:   "Instructions",
			Value: instructions,
		})
	}

	return attrs
}
