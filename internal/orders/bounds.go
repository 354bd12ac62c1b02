package orders

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

// dimensionBounds are the orderable cut ranges per form factor, expressed in
// each form's entry unit (millimeters, except film length in meters).
type dimensionBounds struct {
	lengthMin, lengthMax decimal.Decimal
	widthMin, widthMax   decimal.Decimal
}

var boundsByForm = map[enums.FormType]dimensionBounds{
	enums.FormTypeSheet: {
		lengthMin: decimal.NewFromInt(1), lengthMax: decimal.NewFromInt(600),
		widthMin: decimal.NewFromInt(1), widthMax: decimal.NewFromInt(600),
	},
	enums.FormTypeFilm: {
		lengthMin: decimal.NewFromInt(1), lengthMax: decimal.NewFromInt(100),
		widthMin: decimal.NewFromInt(1), widthMax: decimal.NewFromInt(1370),
	},
	enums.FormTypeRod: {
		lengthMin: decimal.NewFromInt(1), lengthMax: decimal.NewFromInt(1000),
	},
}

const (
	quantityMin = 1
	quantityMax = 10000
)

func validateBounds(form enums.FormType, length, width decimal.Decimal) error {
	bounds, ok := boundsByForm[form]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported form type %q", form))
	}

	lengthUnit := "mm"
	if form.LengthInMeters() {
		lengthUnit = "m"
	}
	if length.LessThan(bounds.lengthMin) || length.GreaterThan(bounds.lengthMax) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"length %s%s outside orderable range [%s, %s]%s",
			length, lengthUnit, bounds.lengthMin, bounds.lengthMax, lengthUnit))
	}

	if form.UsesWidth() {
		if width.LessThan(bounds.widthMin) || width.GreaterThan(bounds.widthMax) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
				"width %smm outside orderable range [%s, %s]mm",
				width, bounds.widthMin, bounds.widthMax))
		}
	}

	return nil
}

func validateQuantity(quantity int) error {
	if quantity < quantityMin || quantity > quantityMax {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf(
			"quantity %d outside orderable range [%d, %d]", quantity, quantityMin, quantityMax))
	}
	return nil
}
