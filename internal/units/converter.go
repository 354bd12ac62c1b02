// Package units keeps dual-unit dimension inputs mutually consistent.
//
// A Converter holds one authoritative value in the primary unit and derives
// the secondary reading from it on demand. Secondary input is converted to
// primary exactly once at entry, so repeated edits never chain conversions
// and round-trip drift stays within display precision.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a display unit for a dimension field.
type Unit struct {
	Name   string
	Symbol string
}

var (
	Millimeter = Unit{Name: "millimeter", Symbol: "mm"}
	Inch       = Unit{Name: "inch", Symbol: `"`}
	Meter      = Unit{Name: "meter", Symbol: "m"}
	Yard       = Unit{Name: "yard", Symbol: "yard"}
)

// DisplayPlaces is the fixed display precision for derived secondary values.
const DisplayPlaces = 1

// Pair binds a primary unit to its secondary and the conversion ratio
// (secondary units per one primary unit).
type Pair struct {
	Primary   Unit
	Secondary Unit
	Ratio     decimal.Decimal
}

var (
	// MillimeterInch converts cut dimensions entered in millimeters.
	MillimeterInch = Pair{
		Primary:   Millimeter,
		Secondary: Inch,
		Ratio:     decimal.NewFromInt(1).Div(decimal.NewFromFloat(25.4)),
	}

	// MeterYard converts roll lengths entered in meters.
	MeterYard = Pair{
		Primary:   Meter,
		Secondary: Yard,
		Ratio:     decimal.NewFromFloat(1.0936133),
	}
)

var (
	ErrNotNumeric  = errors.New("value is not numeric")
	ErrOutOfBounds = errors.New("value is out of bounds")
)

// Converter validates a single dimension against its bounds and keeps the
// millimeter/inch (or meter/yard) readings consistent. Purely local state,
// no synchronization.
type Converter struct {
	pair     Pair
	min, max decimal.Decimal
	primary  decimal.Decimal
	set      bool
	invalid  bool
}

// NewConverter builds a converter with bounds expressed in the primary unit.
func NewConverter(pair Pair, min, max decimal.Decimal) (*Converter, error) {
	if pair.Ratio.Sign() <= 0 {
		return nil, fmt.Errorf("conversion ratio must be positive, got %s", pair.Ratio)
	}
	if max.LessThan(min) {
		return nil, fmt.Errorf("bounds inverted: min %s > max %s", min, max)
	}
	return &Converter{pair: pair, min: min, max: max}, nil
}

// SetPrimary accepts raw text entered in the primary unit. An invalid value
// flips the error flag and keeps the previous authoritative value.
func (c *Converter) SetPrimary(raw string) error {
	value, err := parseDecimal(raw)
	if err != nil {
		c.invalid = true
		return err
	}
	return c.setPrimaryValue(value)
}

// SetSecondary accepts raw text entered in the secondary unit. It converts to
// primary once and stores that as the authoritative value.
func (c *Converter) SetSecondary(raw string) error {
	value, err := parseDecimal(raw)
	if err != nil {
		c.invalid = true
		return err
	}
	return c.setPrimaryValue(value.Div(c.pair.Ratio))
}

func (c *Converter) setPrimaryValue(value decimal.Decimal) error {
	if value.LessThan(c.min) || value.GreaterThan(c.max) {
		c.invalid = true
		return fmt.Errorf("%w: %s not in [%s, %s] %s",
			ErrOutOfBounds, value, c.min, c.max, c.pair.Primary.Symbol)
	}
	c.primary = value
	c.set = true
	c.invalid = false
	return nil
}

// Primary returns the authoritative value in the primary unit.
func (c *Converter) Primary() decimal.Decimal {
	return c.primary
}

// Secondary derives the secondary reading from the authoritative value,
// rounded to display precision.
func (c *Converter) Secondary() decimal.Decimal {
	return Convert(c.primary, c.pair)
}

// Valid reports whether the converter holds an accepted in-bounds value.
func (c *Converter) Valid() bool {
	return c.set && !c.invalid
}

// FormatDual renders the held dimension with both units, e.g. `450mm (17.7")`.
func (c *Converter) FormatDual() string {
	return FormatDual(c.primary, c.pair)
}

// Convert derives a secondary-unit value at display precision.
func Convert(primary decimal.Decimal, pair Pair) decimal.Decimal {
	return primary.Mul(pair.Ratio).Round(DisplayPlaces)
}

// FormatDual renders a primary value with its secondary reading in parens.
// The yard symbol gets no leading space to match the stored attribute style.
func FormatDual(primary decimal.Decimal, pair Pair) string {
	return fmt.Sprintf("%s%s (%s%s)",
		trimTrailingZeros(primary), pair.Primary.Symbol,
		Convert(primary, pair).String(), pair.Secondary.Symbol)
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty input", ErrNotNumeric)
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return value, nil
}

func trimTrailingZeros(d decimal.Decimal) string {
	return d.Truncate(6).String()
}
