package units

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMMConverter(t *testing.T) *Converter {
	t.Helper()
	conv, err := NewConverter(MillimeterInch, decimal.NewFromInt(1), decimal.NewFromInt(600))
	require.NoError(t, err)
	return conv
}

func TestNewConverterValidatesSetup(t *testing.T) {
	_, err := NewConverter(Pair{Primary: Millimeter, Secondary: Inch}, decimal.Zero, decimal.NewFromInt(10))
	require.Error(t, err)

	_, err = NewConverter(MillimeterInch, decimal.NewFromInt(10), decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestSetPrimaryDerivesSecondary(t *testing.T) {
	conv := newMMConverter(t)

	require.NoError(t, conv.SetPrimary("450"))
	assert.True(t, conv.Valid())
	assert.Equal(t, "450", conv.Primary().String())
	assert.Equal(t, "17.7", conv.Secondary().String())
	assert.Equal(t, `450mm (17.7")`, conv.FormatDual())
}

func TestSetSecondaryStoresPrimaryAuthoritative(t *testing.T) {
	conv := newMMConverter(t)

	require.NoError(t, conv.SetSecondary("17.7"))
	// 17.7in = 449.58mm; primary becomes authoritative, secondary rederives.
	assert.True(t, conv.Primary().Sub(decimal.NewFromFloat(449.58)).Abs().LessThan(decimal.NewFromFloat(0.01)))
	assert.Equal(t, "17.7", conv.Secondary().String())
}

func TestRoundTripStaysWithinEpsilon(t *testing.T) {
	conv := newMMConverter(t)
	// half a display step (0.05") expressed in millimeters
	epsilon := decimal.NewFromFloat(1.27)

	require.NoError(t, conv.SetPrimary("300"))
	for i := 0; i < 50; i++ {
		require.NoError(t, conv.SetSecondary(conv.Secondary().String()))
	}
	drift := conv.Primary().Sub(decimal.NewFromInt(300)).Abs()
	assert.True(t, drift.LessThanOrEqual(epsilon), "drift after repeated edits: %s", drift)
}

func TestOutOfBoundsSetsErrorFlag(t *testing.T) {
	conv := newMMConverter(t)

	require.NoError(t, conv.SetPrimary("300"))
	require.True(t, conv.Valid())

	err := conv.SetPrimary("601")
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, conv.Valid())
	// previous authoritative value survives the rejected edit
	assert.Equal(t, "300", conv.Primary().String())

	require.NoError(t, conv.SetPrimary("600"))
	assert.True(t, conv.Valid())
}

func TestNonNumericInputRejected(t *testing.T) {
	conv := newMMConverter(t)

	for _, raw := range []string{"", "  ", "12a", "1.2.3"} {
		err := conv.SetPrimary(raw)
		require.ErrorIs(t, err, ErrNotNumeric, "input %q", raw)
		assert.False(t, conv.Valid())
	}
}

func TestMeterYardFormatting(t *testing.T) {
	conv, err := NewConverter(MeterYard, decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, conv.SetPrimary("12"))
	assert.Equal(t, "13.1", conv.Secondary().String())
	assert.Equal(t, "12m (13.1yard)", conv.FormatDual())
}

func TestFormatDualTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, `5mm (0.2")`, FormatDual(decimal.RequireFromString("5.000"), MillimeterInch))
}
