package enums

import (
	"fmt"
	"strings"
)

// Precision is the requested machining tolerance tier. The stored values are
// the customer-facing labels carried on the product's machining_precision
// metafield and echoed into cart line attributes.
type Precision string

const (
	PrecisionNormal Precision = "Normal (±2mm)"
	PrecisionHigh   Precision = "High (±0.2mm)"
)

var validPrecisions = []Precision{
	PrecisionNormal,
	PrecisionHigh,
}

// String implements fmt.Stringer.
func (p Precision) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Precision.
func (p Precision) IsValid() bool {
	for _, candidate := range validPrecisions {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsHigh reports whether the tier carries the machining surcharge.
func (p Precision) IsHigh() bool {
	return p == PrecisionHigh
}

// ParsePrecision converts raw input into a Precision. Both the full label and
// the bare tier name ("Normal", "High") are accepted.
func ParsePrecision(value string) (Precision, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validPrecisions {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	switch strings.ToLower(trimmed) {
	case "normal":
		return PrecisionNormal, nil
	case "high":
		return PrecisionHigh, nil
	}
	return "", fmt.Errorf("invalid precision %q", value)
}
