// Package orders runs the submission pipeline: validate, price, provision a
// variant, attach it to the cart, and respond with totals. Steps are strictly
// sequential; a failed step stops the pipeline and a failed attachment
// triggers compensation of the already-provisioned variant.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/internal/cart"
	"github.com/DoonX23/ciseco-backend/internal/catalog"
	"github.com/DoonX23/ciseco-backend/internal/pricing"
	"github.com/DoonX23/ciseco-backend/internal/provisioning"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/metrics"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

// Pipeline stage names used for logging and metrics.
const (
	StageValidate  = "validate"
	StageCompute   = "compute"
	StageProvision = "provision"
	StageAttach    = "attach"
)

// Submission is one custom order request after transport decoding. Dimension
// fields carry the primary-unit values; secondary-unit readings are derived
// server side, never trusted from the client.
type Submission struct {
	ProductID string
	FormType  enums.FormType

	LengthMm decimal.Decimal
	LengthM  decimal.Decimal
	WidthMm  decimal.Decimal

	Precision    enums.Precision
	Quantity     int
	Instructions string

	CartID         string
	IdempotencyKey string
}

// Quote is the priced view of a submission before anything is provisioned.
type Quote struct {
	UnitPrice     decimal.Decimal
	UnitWeightKg  decimal.Decimal
	TotalPrice    decimal.Decimal
	TotalWeightKg decimal.Decimal
	Quantity      int
}

// Result is the final pipeline outcome handed back to the storefront.
type Result struct {
	Quote Quote

	VariantID     string
	Discriminator string
	VariantReused bool

	CartID        string
	CheckoutURL   string
	TotalQuantity int
	NewCart       bool
	Attributes    []shopify.LineAttribute
}

// Service is the submission orchestrator.
type Service interface {
	Submit(ctx context.Context, sub Submission) (*Result, error)
	QuoteOnly(ctx context.Context, sub Submission) (*Quote, error)
}

type service struct {
	catalog      catalog.Service
	engine       *pricing.Engine
	provisioning provisioning.Service
	cart         cart.Service
	logger       *logger.Logger
	metrics      *metrics.PipelineMetrics
}

func NewService(
	catalogSvc catalog.Service,
	engine *pricing.Engine,
	provisioningSvc provisioning.Service,
	cartSvc cart.Service,
	logg *logger.Logger,
	pipelineMetrics *metrics.PipelineMetrics,
) (Service, error) {
	if catalogSvc == nil {
		return nil, errors.New("orders: catalog service is required")
	}
	if engine == nil {
		return nil, errors.New("orders: pricing engine is required")
	}
	if provisioningSvc == nil {
		return nil, errors.New("orders: provisioning service is required")
	}
	if cartSvc == nil {
		return nil, errors.New("orders: cart service is required")
	}
	if logg == nil {
		return nil, errors.New("orders: logger is required")
	}
	return &service{
		catalog:      catalogSvc,
		engine:       engine,
		provisioning: provisioningSvc,
		cart:         cartSvc,
		logger:       logg,
		metrics:      pipelineMetrics,
	}, nil
}

// Submit runs the full pipeline. The variant is provisioned before the cart
// call; if attachment fails the variant is abandoned so it cannot leak into
// the catalog as an orderable dangling option.
func (s *service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	ctx = s.logger.WithProductID(ctx, sub.ProductID)

	product, quote, input, err := s.validateAndPrice(ctx, sub)
	if err != nil {
		s.metrics.IncSubmission("rejected")
		return nil, err
	}

	stageStart := time.Now()
	ctx = s.logger.WithStage(ctx, StageProvision)
	variant, err := s.provisioning.Provision(ctx, provisioning.Request{
		ProductID:      sub.ProductID,
		Price:          quote.UnitPrice,
		WeightKg:       quote.UnitWeightKg,
		IdempotencyKey: sub.IdempotencyKey,
	})
	if err != nil {
		s.metrics.IncSubmission("provision_failed")
		return nil, err
	}
	s.metrics.ObserveStage(StageProvision, time.Since(stageStart))

	stageStart = time.Now()
	ctx = s.logger.WithStage(ctx, StageAttach)
	attachment, err := s.cart.Attach(ctx, cart.AttachRequest{
		CartID:       sub.CartID,
		VariantID:    variant.VariantID,
		Quantity:     sub.Quantity,
		FormType:     sub.FormType,
		ThicknessMm:  input.ThicknessMm,
		DiameterMm:   input.DiameterMm,
		LengthMm:     sub.LengthMm,
		LengthM:      sub.LengthM,
		WidthMm:      sub.WidthMm,
		Precision:    sub.Precision,
		Instructions: sub.Instructions,
	})
	if err != nil {
		s.metrics.IncSubmission("attach_failed")
		s.compensate(ctx, sub.ProductID, variant, err)
		return nil, err
	}
	s.metrics.ObserveStage(StageAttach, time.Since(stageStart))

	if err := s.provisioning.MarkAttached(ctx, variant.RecordID); err != nil {
		// The order went through; a stale audit row is the cleanup job's
		// problem, not the shopper's.
		s.logger.Error(ctx, "marking variant attached failed", err)
	}

	s.metrics.IncSubmission("accepted")
	s.logger.Info(s.logger.WithFields(ctx, map[string]any{
		"variant_id":  variant.VariantID,
		"cart_id":     attachment.CartID,
		"total_price": quote.TotalPrice.String(),
		"form_type":   product.FormType,
	}), "custom order submitted")

	return &Result{
		Quote:         *quote,
		VariantID:     variant.VariantID,
		Discriminator: variant.Discriminator,
		VariantReused: variant.Reused,
		CartID:        attachment.CartID,
		CheckoutURL:   attachment.CheckoutURL,
		TotalQuantity: attachment.TotalQuantity,
		NewCart:       attachment.NewCart,
		Attributes:    attachment.Attributes,
	}, nil
}

// QuoteOnly validates and prices a submission without provisioning a variant
// or touching the cart.
func (s *service) QuoteOnly(ctx context.Context, sub Submission) (*Quote, error) {
	ctx = s.logger.WithProductID(ctx, sub.ProductID)
	_, quote, _, err := s.validateAndPrice(ctx, sub)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *service) validateAndPrice(ctx context.Context, sub Submission) (*catalog.Product, *Quote, *pricing.CalculationInput, error) {
	stageStart := time.Now()
	ctx = s.logger.WithStage(ctx, StageValidate)

	if strings.TrimSpace(sub.ProductID) == "" {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !sub.FormType.IsValid() {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown form type %q", sub.FormType))
	}
	if err := validateQuantity(sub.Quantity); err != nil {
		return nil, nil, nil, err
	}

	length := sub.LengthMm
	if sub.FormType.LengthInMeters() {
		if sub.LengthMm.Sign() != 0 {
			return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				"film length must be given in meters only")
		}
		length = sub.LengthM
	} else if sub.LengthM.Sign() != 0 {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s length must be given in millimeters only", strings.ToLower(sub.FormType.String())))
	}
	if err := validateBounds(sub.FormType, length, sub.WidthMm); err != nil {
		return nil, nil, nil, err
	}

	product, err := s.catalog.GetProduct(ctx, sub.ProductID)
	if err != nil {
		return nil, nil, nil, err
	}

	if product.FormType != sub.FormType {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"form type %q does not match the product's %q", sub.FormType, product.FormType))
	}

	// server-side eligibility gate: the storefront disables the option but
	// the request is rejected here regardless
	if sub.Precision.IsHigh() && !product.HighPrecisionEligible() {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
			"high precision is not available for this product")
	}
	s.metrics.ObserveStage(StageValidate, time.Since(stageStart))

	stageStart = time.Now()
	ctx = s.logger.WithStage(ctx, StageCompute)
	input := pricing.CalculationInput{
		FormType:    sub.FormType,
		Precision:   sub.Precision,
		ThicknessMm: product.ThicknessMm,
		DiameterMm:  product.DiameterMm,
		LengthMm:    sub.LengthMm,
		LengthM:     sub.LengthM,
		WidthMm:     sub.WidthMm,
		Density:     product.Density,
		UnitPrice:   product.UnitPrice,
	}
	result, err := s.engine.Compute(input)
	if err != nil {
		return nil, nil, nil, err
	}
	s.metrics.ObserveStage(StageCompute, time.Since(stageStart))

	qty := decimal.NewFromInt(int64(sub.Quantity))
	return product, &Quote{
		UnitPrice:     result.Price,
		UnitWeightKg:  result.WeightKg,
		TotalPrice:    result.Price.Mul(qty),
		TotalWeightKg: result.WeightKg.Mul(qty),
		Quantity:      sub.Quantity,
	}, &input, nil
}

func (s *service) compensate(ctx context.Context, productID string, variant *provisioning.Variant, cause error) {
	s.logger.Error(ctx, "cart attachment failed, abandoning variant", cause)
	if err := s.provisioning.Abandon(ctx, productID, variant); err != nil {
		s.metrics.IncOrphan()
		s.logger.Error(ctx, "variant left orphaned for cleanup", err)
	}
}
