package enums

import "fmt"

// FormType is the product shape category; it decides which dimensional fields
// and pricing formula apply.
type FormType string

const (
	FormTypeSheet FormType = "Sheet"
	FormTypeFilm  FormType = "Film"
	FormTypeRod   FormType = "Rod"
)

var validFormTypes = []FormType{
	FormTypeSheet,
	FormTypeFilm,
	FormTypeRod,
}

// String implements fmt.Stringer.
func (f FormType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FormType.
func (f FormType) IsValid() bool {
	for _, candidate := range validFormTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// UsesWidth reports whether the form factor carries a width dimension.
func (f FormType) UsesWidth() bool {
	return f == FormTypeSheet || f == FormTypeFilm
}

// LengthInMeters reports whether length is entered in meters rather than
// millimeters. Film is sold in long rolls.
func (f FormType) LengthInMeters() bool {
	return f == FormTypeFilm
}

// ParseFormType converts raw input into a FormType.
func ParseFormType(value string) (FormType, error) {
	for _, candidate := range validFormTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid form type %q", value)
}
