// Package pricing computes per-unit price and weight for cut-to-size
// material. All dimensions normalize to meters and all masses to kilograms
// before any multiplication, so catalog metadata and form input can mix
// millimeter and meter entry without special cases downstream.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

var (
	mmPerMeter    = decimal.NewFromInt(1000)
	gcm3ToKgM3    = decimal.NewFromInt(1000)
	pi            = decimal.NewFromFloat(math.Pi)
	two           = decimal.NewFromInt(2)
	highSurcharge = decimal.RequireFromString("1.25")
)

const (
	pricePlaces  = 2
	weightPlaces = 3
)

// CalculationInput is one submission's worth of pricing inputs. Dimensions
// carry the unit of their field name; density is g/cm³ and unitPrice is the
// catalog per-unit base price (per m² for flat stock, per kg for rod).
type CalculationInput struct {
	FormType  enums.FormType
	Precision enums.Precision

	ThicknessMm decimal.Decimal // Sheet, Film
	DiameterMm  decimal.Decimal // Rod
	LengthMm    decimal.Decimal // Sheet, Rod
	LengthM     decimal.Decimal // Film
	WidthMm     decimal.Decimal // Sheet, Film

	Density   decimal.Decimal
	UnitPrice decimal.Decimal
}

// PriceWeightResult is the per-unit outcome. Totals are the caller's
// multiplication, never the engine's.
type PriceWeightResult struct {
	Price    decimal.Decimal
	WeightKg decimal.Decimal
}

type strategy func(CalculationInput) (PriceWeightResult, error)

// Engine dispatches on form type. Stateless and safe for concurrent use.
type Engine struct {
	strategies map[enums.FormType]strategy
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[enums.FormType]strategy{
			enums.FormTypeSheet: computeSheet,
			enums.FormTypeFilm:  computeFilm,
			enums.FormTypeRod:   computeRod,
		},
	}
}

// Compute returns the per-unit price and weight for the input. The result is
// deterministic and independent of order quantity.
func (e *Engine) Compute(input CalculationInput) (PriceWeightResult, error) {
	compute, ok := e.strategies[input.FormType]
	if !ok {
		return PriceWeightResult{}, pkgerrors.New(pkgerrors.CodeInvalidInput,
			fmt.Sprintf("unsupported form type %q", input.FormType))
	}

	if input.Density.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("density", input.Density)
	}
	if input.UnitPrice.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("unitPrice", input.UnitPrice)
	}

	result, err := compute(input)
	if err != nil {
		return PriceWeightResult{}, err
	}

	if input.Precision.IsHigh() {
		result.Price = result.Price.Mul(highSurcharge)
	}

	result.Price = result.Price.Round(pricePlaces)
	result.WeightKg = result.WeightKg.Round(weightPlaces)
	return result, nil
}

// computeSheet prices flat stock by cut area; weight comes from the slab
// volume at catalog thickness and density.
func computeSheet(input CalculationInput) (PriceWeightResult, error) {
	if input.LengthMm.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("lengthMm", input.LengthMm)
	}
	return flatStock(input.LengthMm.Div(mmPerMeter), input)
}

// computeFilm is the same area formula but roll length is entered in meters.
func computeFilm(input CalculationInput) (PriceWeightResult, error) {
	if input.LengthM.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("lengthM", input.LengthM)
	}
	return flatStock(input.LengthM, input)
}

func flatStock(lengthM decimal.Decimal, input CalculationInput) (PriceWeightResult, error) {
	if input.WidthMm.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("widthMm", input.WidthMm)
	}
	if input.ThicknessMm.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("thickness", input.ThicknessMm)
	}

	widthM := input.WidthMm.Div(mmPerMeter)
	thicknessM := input.ThicknessMm.Div(mmPerMeter)

	areaM2 := lengthM.Mul(widthM)
	volumeM3 := areaM2.Mul(thicknessM)
	weightKg := volumeM3.Mul(input.Density.Mul(gcm3ToKgM3))

	return PriceWeightResult{
		Price:    areaM2.Mul(input.UnitPrice),
		WeightKg: weightKg,
	}, nil
}

// computeRod prices by mass: weight scales with the cross-sectional area of
// the given diameter, and unitPrice is per kilogram.
func computeRod(input CalculationInput) (PriceWeightResult, error) {
	if input.LengthMm.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("lengthMm", input.LengthMm)
	}
	if input.DiameterMm.Sign() <= 0 {
		return PriceWeightResult{}, invalidField("diameter", input.DiameterMm)
	}

	lengthM := input.LengthMm.Div(mmPerMeter)
	radiusM := input.DiameterMm.Div(mmPerMeter).Div(two)

	crossSectionM2 := pi.Mul(radiusM).Mul(radiusM)
	volumeM3 := crossSectionM2.Mul(lengthM)
	weightKg := volumeM3.Mul(input.Density.Mul(gcm3ToKgM3))

	return PriceWeightResult{
		Price:    weightKg.Mul(input.UnitPrice),
		WeightKg: weightKg,
	}, nil
}

func invalidField(field string, value decimal.Decimal) error {
	return pkgerrors.New(pkgerrors.CodeInvalidInput,
		fmt.Sprintf("%s must be positive, got %s", field, value))
}
