// Package catalog resolves the product metadata that drives pricing. Values
// arrive as metafield strings and are parsed into typed fields here so the
// rest of the pipeline never touches raw platform payloads.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

// MetadataReader is the slice of the platform client this service needs.
type MetadataReader interface {
	GetProductMetadata(ctx context.Context, productID string) (*shopify.ProductMetadata, error)
}

// Product is the parsed catalog view of one customizable product.
type Product struct {
	ID                string
	Title             string
	FormType          enums.FormType
	BaselinePrecision enums.Precision
	ThicknessMm       decimal.Decimal
	DiameterMm        decimal.Decimal
	Density           decimal.Decimal
	UnitPrice         decimal.Decimal
}

// HighPrecisionEligible reports whether the product may be ordered at the
// tighter machining tolerance. Products whose baseline metadata already sits
// at the standard tier cannot be upgraded.
func (p *Product) HighPrecisionEligible() bool {
	return p.BaselinePrecision.IsHigh()
}

// Service reads and parses product metadata.
type Service interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

type service struct {
	reader MetadataReader
	logger *logger.Logger
}

func NewService(reader MetadataReader, logg *logger.Logger) (Service, error) {
	if reader == nil {
		return nil, errors.New("catalog: metadata reader is required")
	}
	if logg == nil {
		return nil, errors.New("catalog: logger is required")
	}
	return &service{reader: reader, logger: logg}, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "product id is required")
	}

	meta, err := s.reader.GetProductMetadata(ctx, productID)
	if err != nil {
		return nil, err
	}

	product, err := parseProduct(meta)
	if err != nil {
		s.logger.Error(s.logger.WithProductID(ctx, productID), "catalog metadata malformed", err)
		return nil, err
	}
	return product, nil
}

func parseProduct(meta *shopify.ProductMetadata) (*Product, error) {
	formType, err := enums.ParseFormType(meta.FormType)
	if err != nil {
		return nil, metadataError("form_type", meta.FormType, err)
	}

	baseline := enums.PrecisionNormal
	if meta.MachiningPrecision != "" {
		baseline, err = enums.ParsePrecision(meta.MachiningPrecision)
		if err != nil {
			return nil, metadataError("machining_precision", meta.MachiningPrecision, err)
		}
	}

	product := &Product{
		ID:                meta.ProductID,
		Title:             meta.Title,
		FormType:          formType,
		BaselinePrecision: baseline,
	}

	product.Density, err = requiredDecimal("density", meta.Density)
	if err != nil {
		return nil, err
	}
	product.UnitPrice, err = requiredDecimal("unit_price", meta.UnitPrice)
	if err != nil {
		return nil, err
	}

	switch formType {
	case enums.FormTypeRod:
		product.DiameterMm, err = requiredDecimal("diameter", meta.Diameter)
	default:
		product.ThicknessMm, err = requiredDecimal("thickness", meta.Thickness)
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

func requiredDecimal(field, raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeInvalidInput,
			fmt.Sprintf("product metafield %s is missing", field))
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, metadataError(field, raw, err)
	}
	if value.Sign() <= 0 {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeInvalidInput,
			fmt.Sprintf("product metafield %s must be positive, got %s", field, value))
	}
	return value, nil
}

func metadataError(field, raw string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err,
		fmt.Sprintf("product metafield %s has invalid value %q", field, raw))
}
