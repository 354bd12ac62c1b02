package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sheetInput() CalculationInput {
	return CalculationInput{
		FormType:    enums.FormTypeSheet,
		Precision:   enums.PrecisionNormal,
		ThicknessMm: d("5"),
		LengthMm:    d("600"),
		WidthMm:     d("600"),
		Density:     d("1.2"),
		UnitPrice:   d("10"),
	}
}

func TestComputeSheet(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Compute(sheetInput())
	require.NoError(t, err)

	// 0.6m x 0.6m = 0.36m² at 10/m²
	assert.Equal(t, "3.6", result.Price.String())
	// 0.36m² x 0.005m x 1200kg/m³
	assert.Equal(t, "2.16", result.WeightKg.String())
}

func TestComputeFilmUsesMeterLength(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Compute(CalculationInput{
		FormType:    enums.FormTypeFilm,
		Precision:   enums.PrecisionNormal,
		ThicknessMm: d("0.5"),
		LengthM:     d("12"),
		WidthMm:     d("450"),
		Density:     d("1.4"),
		UnitPrice:   d("3"),
	})
	require.NoError(t, err)

	// 12m x 0.45m = 5.4m² at 3/m²
	assert.Equal(t, "16.2", result.Price.String())
	// 5.4m² x 0.0005m x 1400kg/m³ = 3.78kg
	assert.Equal(t, "3.78", result.WeightKg.String())
}

func TestComputeRodScalesWithCrossSection(t *testing.T) {
	engine := NewEngine()

	base := CalculationInput{
		FormType:   enums.FormTypeRod,
		Precision:  enums.PrecisionNormal,
		DiameterMm: d("10"),
		LengthMm:   d("300"),
		Density:    d("7.8"),
		UnitPrice:  d("20"),
	}

	result, err := engine.Compute(base)
	require.NoError(t, err)
	// pi x 0.005² x 0.3m x 7800kg/m³ ≈ 0.184kg
	assert.Equal(t, "0.184", result.WeightKg.String())
	assert.True(t, result.Price.GreaterThan(decimal.Zero))

	doubled := base
	doubled.DiameterMm = d("20")
	doubledResult, err := engine.Compute(doubled)
	require.NoError(t, err)

	// doubling the diameter quadruples the cross section
	ratio := doubledResult.WeightKg.Div(result.WeightKg)
	assert.True(t, ratio.Sub(d("4")).Abs().LessThan(d("0.05")), "ratio %s", ratio)
}

func TestHighPrecisionSurchargeAppliesToPriceOnly(t *testing.T) {
	engine := NewEngine()

	normal, err := engine.Compute(sheetInput())
	require.NoError(t, err)

	high := sheetInput()
	high.Precision = enums.PrecisionHigh
	highResult, err := engine.Compute(high)
	require.NoError(t, err)

	assert.Equal(t, normal.Price.Mul(d("1.25")).Round(2).String(), highResult.Price.String())
	assert.Equal(t, normal.WeightKg.String(), highResult.WeightKg.String())
}

func TestComputeIsQuantityIndependent(t *testing.T) {
	engine := NewEngine()

	first, err := engine.Compute(sheetInput())
	require.NoError(t, err)
	second, err := engine.Compute(sheetInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// caller-side total for quantity 2
	assert.Equal(t, "7.2", first.Price.Mul(d("2")).String())
}

func TestComputePriceMonotonicInLength(t *testing.T) {
	engine := NewEngine()

	small := sheetInput()
	small.LengthMm = d("100")
	large := sheetInput()
	large.LengthMm = d("500")

	smallResult, err := engine.Compute(small)
	require.NoError(t, err)
	largeResult, err := engine.Compute(large)
	require.NoError(t, err)

	assert.True(t, largeResult.Price.GreaterThan(smallResult.Price))
	assert.True(t, largeResult.WeightKg.GreaterThan(smallResult.WeightKg))
}

func TestComputeRejectsBadInputs(t *testing.T) {
	engine := NewEngine()

	cases := []struct {
		name   string
		mutate func(*CalculationInput)
	}{
		{"unknown form", func(in *CalculationInput) { in.FormType = "Tube" }},
		{"zero length", func(in *CalculationInput) { in.LengthMm = decimal.Zero }},
		{"zero width", func(in *CalculationInput) { in.WidthMm = decimal.Zero }},
		{"zero thickness", func(in *CalculationInput) { in.ThicknessMm = decimal.Zero }},
		{"negative density", func(in *CalculationInput) { in.Density = d("-1") }},
		{"zero unit price", func(in *CalculationInput) { in.UnitPrice = decimal.Zero }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := sheetInput()
			tc.mutate(&input)
			_, err := engine.Compute(input)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
		})
	}

	t.Run("rod without diameter", func(t *testing.T) {
		_, err := engine.Compute(CalculationInput{
			FormType:  enums.FormTypeRod,
			LengthMm:  d("300"),
			Density:   d("7.8"),
			UnitPrice: d("20"),
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidInput))
	})
}
