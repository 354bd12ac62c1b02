package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoonX23/ciseco-backend/internal/cart"
	"github.com/DoonX23/ciseco-backend/internal/catalog"
	"github.com/DoonX23/ciseco-backend/internal/pricing"
	"github.com/DoonX23/ciseco-backend/internal/provisioning"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	"github.com/DoonX23/ciseco-backend/pkg/shopify"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type stubCatalog struct {
	product *catalog.Product
	err     error
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

type stubProvisioning struct {
	variant      *provisioning.Variant
	provisionErr error
	abandonErr   error

	provisionCalls []provisioning.Request
	attachedIDs    []uuid.UUID
	abandoned      []*provisioning.Variant
}

func (s *stubProvisioning) Provision(ctx context.Context, req provisioning.Request) (*provisioning.Variant, error) {
	s.provisionCalls = append(s.provisionCalls, req)
	if s.provisionErr != nil {
		return nil, s.provisionErr
	}
	return s.variant, nil
}

func (s *stubProvisioning) MarkAttached(ctx context.Context, recordID uuid.UUID) error {
	s.attachedIDs = append(s.attachedIDs, recordID)
	return nil
}

func (s *stubProvisioning) Abandon(ctx context.Context, productID string, variant *provisioning.Variant) error {
	s.abandoned = append(s.abandoned, variant)
	return s.abandonErr
}

type stubCart struct {
	attachment *cart.Attachment
	err        error

	attachCalls []cart.AttachRequest
}

func (s *stubCart) Attach(ctx context.Context, req cart.AttachRequest) (*cart.Attachment, error) {
	s.attachCalls = append(s.attachCalls, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.attachment, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

func sheetProduct() *catalog.Product {
	return &catalog.Product{
		ID:                "gid://shopify/Product/7",
		Title:             "Acrylic Sheet",
		FormType:          enums.FormTypeSheet,
		BaselinePrecision: enums.PrecisionHigh,
		ThicknessMm:       d("5"),
		Density:           d("1.2"),
		UnitPrice:         d("10"),
	}
}

func sheetSubmission() Submission {
	return Submission{
		ProductID: "gid://shopify/Product/7",
		FormType:  enums.FormTypeSheet,
		LengthMm:  d("600"),
		WidthMm:   d("600"),
		Precision: enums.PrecisionNormal,
		Quantity:  2,
	}
}

type fixture struct {
	catalog      *stubCatalog
	provisioning *stubProvisioning
	cart         *stubCart
	service      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog: &stubCatalog{product: sheetProduct()},
		provisioning: &stubProvisioning{variant: &provisioning.Variant{
			RecordID:      uuid.New(),
			VariantID:     "gid://shopify/ProductVariant/42",
			Discriminator: "1756713000000-ab3xf",
		}},
		cart: &stubCart{attachment: &cart.Attachment{
			CartID:        "gid://shopify/Cart/abc",
			CheckoutURL:   "https://example.com/checkout",
			TotalQuantity: 2,
			NewCart:       true,
			Attributes:    []shopify.LineAttribute{{Key: "Thickness", Value: "5mm"}},
		}},
	}

	svc, err := NewService(f.catalog, pricing.NewEngine(), f.provisioning, f.cart, testLogger(), nil)
	require.NoError(t, err)
	f.service = svc
	return f
}

func TestSubmitSheetHappyPath(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Submit(context.Background(), sheetSubmission())
	require.NoError(t, err)

	// 0.36m² at 10/m² per unit, quantity 2
	assert.Equal(t, "3.6", result.Quote.UnitPrice.String())
	assert.Equal(t, "7.2", result.Quote.TotalPrice.String())
	assert.Equal(t, "2.16", result.Quote.UnitWeightKg.String())

	assert.Equal(t, "gid://shopify/ProductVariant/42", result.VariantID)
	assert.Equal(t, "gid://shopify/Cart/abc", result.CartID)
	assert.True(t, result.NewCart)

	// pipeline order: provision before attach, then finalize
	require.Len(t, f.provisioning.provisionCalls, 1)
	assert.Equal(t, "3.6", f.provisioning.provisionCalls[0].Price.String())
	require.Len(t, f.cart.attachCalls, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/42", f.cart.attachCalls[0].VariantID)
	// catalog thickness flows into the cart attributes, not client input
	assert.Equal(t, "5", f.cart.attachCalls[0].ThicknessMm.String())
	assert.Len(t, f.provisioning.attachedIDs, 1)
	assert.Empty(t, f.provisioning.abandoned)
}

func TestSubmitPassesSessionAndIdempotencyThrough(t *testing.T) {
	f := newFixture(t)

	sub := sheetSubmission()
	sub.CartID = "gid://shopify/Cart/existing"
	sub.IdempotencyKey = "key-9"

	_, err := f.service.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, "key-9", f.provisioning.provisionCalls[0].IdempotencyKey)
	assert.Equal(t, "gid://shopify/Cart/existing", f.cart.attachCalls[0].CartID)
}

func TestSubmitValidationStopsBeforeAnyRemoteCall(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing product", func(s *Submission) { s.ProductID = "" }},
		{"unknown form", func(s *Submission) { s.FormType = "Tube" }},
		{"zero quantity", func(s *Submission) { s.Quantity = 0 }},
		{"quantity too large", func(s *Submission) { s.Quantity = 10001 }},
		{"length over bounds", func(s *Submission) { s.LengthMm = d("601") }},
		{"width under bounds", func(s *Submission) { s.WidthMm = d("0") }},
		{"meter length on sheet", func(s *Submission) {
			s.LengthMm = decimal.Zero
			s.LengthM = d("2")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			sub := sheetSubmission()
			tc.mutate(&sub)

			_, err := f.service.Submit(context.Background(), sub)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
			assert.Empty(t, f.provisioning.provisionCalls)
			assert.Empty(t, f.cart.attachCalls)
		})
	}
}

func TestSubmitRejectsIneligibleHighPrecision(t *testing.T) {
	f := newFixture(t)
	f.catalog.product.BaselinePrecision = enums.PrecisionNormal

	sub := sheetSubmission()
	sub.Precision = enums.PrecisionHigh

	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "high precision")
	assert.Empty(t, f.provisioning.provisionCalls)
}

func TestSubmitRejectsFormTypeMismatch(t *testing.T) {
	f := newFixture(t)

	sub := Submission{
		ProductID: "gid://shopify/Product/7",
		FormType:  enums.FormTypeRod,
		LengthMm:  d("300"),
		Quantity:  1,
	}
	_, err := f.service.Submit(context.Background(), sub)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSubmitProvisionFailureSkipsCart(t *testing.T) {
	f := newFixture(t)
	f.provisioning.provisionErr = pkgerrors.New(pkgerrors.CodeBusinessRejection, "variant creation rejected")

	_, err := f.service.Submit(context.Background(), sheetSubmission())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeBusinessRejection))
	// no cart mutation happens after a failed provisioning step
	assert.Empty(t, f.cart.attachCalls)
	assert.Empty(t, f.provisioning.abandoned)
}

func TestSubmitAttachFailureAbandonsVariant(t *testing.T) {
	f := newFixture(t)
	f.cart.err = pkgerrors.New(pkgerrors.CodeCartAttachment, "cart lines add rejected")

	_, err := f.service.Submit(context.Background(), sheetSubmission())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCartAttachment))

	require.Len(t, f.provisioning.abandoned, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/42", f.provisioning.abandoned[0].VariantID)
	assert.Empty(t, f.provisioning.attachedIDs)
}

func TestSubmitFilmUsesMeterLength(t *testing.T) {
	f := newFixture(t)
	f.catalog.product = &catalog.Product{
		ID:                "gid://shopify/Product/9",
		FormType:          enums.FormTypeFilm,
		BaselinePrecision: enums.PrecisionNormal,
		ThicknessMm:       d("0.5"),
		Density:           d("1.4"),
		UnitPrice:         d("3"),
	}

	result, err := f.service.Submit(context.Background(), Submission{
		ProductID: "gid://shopify/Product/9",
		FormType:  enums.FormTypeFilm,
		LengthM:   d("12"),
		WidthMm:   d("450"),
		Precision: enums.PrecisionNormal,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "16.2", result.Quote.UnitPrice.String())
	assert.Equal(t, "12", f.cart.attachCalls[0].LengthM.String())
}

func TestQuoteOnlyNeverProvisions(t *testing.T) {
	f := newFixture(t)

	quote, err := f.service.QuoteOnly(context.Background(), sheetSubmission())
	require.NoError(t, err)
	assert.Equal(t, "3.6", quote.UnitPrice.String())
	assert.Equal(t, "7.2", quote.TotalPrice.String())
	assert.Equal(t, 2, quote.Quantity)

	assert.Empty(t, f.provisioning.provisionCalls)
	assert.Empty(t, f.cart.attachCalls)
}

func TestQuoteOnlyPropagatesCatalogErrors(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = pkgerrors.New(pkgerrors.CodeTransport, "upstream down")
	f.catalog.product = nil

	_, err := f.service.QuoteOnly(context.Background(), sheetSubmission())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeTransport))
}
