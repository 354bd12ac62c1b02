package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

type stubReader struct {
	meta *shopify.ProductMetadata
	err  error

	gotProductID string
}

func (s *stubReader) GetProductMetadata(ctx context.Context, productID string) (*shopify.ProductMetadata, error) {
	s.gotProductID = productID
	if s.err != nil {
		return nil, s.err
	}
	return s.meta, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func sheetMetadata() *shopify.ProductMetadata {
	return &shopify.ProductMetadata{
		ProductID:          "gid://shopify/Product/7",
		Title:              "Acrylic Sheet",
		FormType:           "Sheet",
		MachiningPrecision: "High (±0.2mm)",
		Thickness:          "5",
		Density:            "1.2",
		UnitPrice:          "10",
	}
}

func TestNewServiceValidatesInputs(t *testing.T) {
	_, err := NewService(nil, testLogger())
	require.Error(t, err)

	_, err = NewService(&stubReader{}, nil)
	require.Error(t, err)
}

func TestGetProductParsesMetafields(t *testing.T) {
	reader := &stubReader{meta: sheetMetadata()}
	svc, err := NewService(reader, testLogger())
	require.NoError(t, err)

	product, err := svc.GetProduct(context.Background(), "gid://shopify/Product/7")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Product/7", reader.gotProductID)
	assert.Equal(t, enums.FormTypeSheet, product.FormType)
	assert.Equal(t, enums.PrecisionHigh, product.BaselinePrecision)
	assert.True(t, product.HighPrecisionEligible())
	assert.Equal(t, "5", product.ThicknessMm.String())
	assert.Equal(t, "1.2", product.Density.String())
	assert.Equal(t, "10", product.UnitPrice.String())
	assert.True(t, product.DiameterMm.IsZero())
}

func TestGetProductRodRequiresDiameter(t *testing.T) {
	meta := sheetMetadata()
	meta.FormType = "Rod"
	meta.Thickness = ""
	meta.Diameter = "10"

	svc, err := NewService(&stubReader{meta: meta}, testLogger())
	require.NoError(t, err)

	product, err := svc.GetProduct(context.Background(), meta.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "10", product.DiameterMm.String())
	assert.True(t, product.ThicknessMm.IsZero())

	meta.Diameter = ""
	_, err = svc.GetProduct(context.Background(), meta.ProductID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
}

func TestGetProductBaselineDefaultsToNormal(t *testing.T) {
	meta := sheetMetadata()
	meta.MachiningPrecision = ""

	svc, err := NewService(&stubReader{meta: meta}, testLogger())
	require.NoError(t, err)

	product, err := svc.GetProduct(context.Background(), meta.ProductID)
	require.NoError(t, err)
	assert.Equal(t, enums.PrecisionNormal, product.BaselinePrecision)
	assert.False(t, product.HighPrecisionEligible())
}

func TestGetProductRejectsMalformedMetadata(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*shopify.ProductMetadata)
	}{
		{"unknown form type", func(m *shopify.ProductMetadata) { m.FormType = "Tube" }},
		{"bad density", func(m *shopify.ProductMetadata) { m.Density = "thick" }},
		{"negative unit price", func(m *shopify.ProductMetadata) { m.UnitPrice = "-5" }},
		{"missing thickness", func(m *shopify.ProductMetadata) { m.Thickness = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := sheetMetadata()
			tc.mutate(meta)
			svc, err := NewService(&stubReader{meta: meta}, testLogger())
			require.NoError(t, err)

			_, err = svc.GetProduct(context.Background(), meta.ProductID)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
		})
	}
}

func TestGetProductPropagatesReaderErrors(t *testing.T) {
	readerErr := pkgerrors.New(pkgerrors.CodeTransport, "upstream down")
	svc, err := NewService(&stubReader{err: readerErr}, testLogger())
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), "gid://shopify/Product/7")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeTransport))
}

func TestGetProductRequiresProductID(t *testing.T) {
	svc, err := NewService(&stubReader{meta: sheetMetadata()}, testLogger())
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
}
