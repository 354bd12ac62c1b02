package customorders

import (
	"github.com/shopspring/decimal"

	"github.com/DoonX23/ciseco-backend/internal/orders"
	"github.com/DoonX23/ciseco-backend/pkg/enums"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
)

// SubmitRequest is the storefront submission payload. Display-only metadata
// strings (material, thickness, density, unit price) are accepted for
// compatibility but pricing inputs are re-derived from the catalog, never
// from these fields.
type SubmitRequest struct {
	ProductID string `json:"productId" validate:"required"`
	FormType  string `json:"formType" validate:"required,oneof=Sheet Film Rod"`

	Material  string `json:"material"`
	Opacity   string `json:"opacity"`
	Color     string `json:"color"`
	Thickness string `json:"thickness"`
	Diameter  string `json:"diameter"`
	Density   string `json:"density"`
	UnitPrice string `json:"unitPrice"`

	LengthMm   *decimal.Decimal `json:"lengthMm"`
	LengthInch *decimal.Decimal `json:"lengthInch"`
	LengthM    *decimal.Decimal `json:"lengthM"`
	LengthYard *decimal.Decimal `json:"lengthYard"`
	WidthMm    *decimal.Decimal `json:"widthMm"`
	WidthInch  *decimal.Decimal `json:"widthInch"`

	Precision    string `json:"precision"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=10000"`
	Instructions string `json:"instructions" validate:"omitempty,max=500"`
}

// toSubmission converts the wire payload into the pipeline's input. Only the
// primary-unit value of each dual pair is authoritative; the secondary value
// is display state and is dropped here.
func (req *SubmitRequest) toSubmission(cartID, idempotencyKey string) (orders.Submission, error) {
	formType, err := enums.ParseFormType(req.FormType)
	if err != nil {
		return orders.Submission{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form type")
	}

	precision := enums.PrecisionNormal
	if req.Precision != "" {
		precision, err = enums.ParsePrecision(req.Precision)
		if err != nil {
			return orders.Submission{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid precision")
		}
	}

	sub := orders.Submission{
		ProductID:      req.ProductID,
		FormType:       formType,
		Precision:      precision,
		Quantity:       req.Quantity,
		Instructions:   req.Instructions,
		CartID:         cartID,
		IdempotencyKey: idempotencyKey,
	}

	if formType.LengthInMeters() {
		if req.LengthM == nil {
			return orders.Submission{}, pkgerrors.New(pkgerrors.CodeValidation, "lengthM is required for film")
		}
		sub.LengthM = *req.LengthM
	} else {
		if req.LengthMm == nil {
			return orders.Submission{}, pkgerrors.New(pkgerrors.CodeValidation, "lengthMm is required")
		}
		sub.LengthMm = *req.LengthMm
	}

	if formType.UsesWidth() {
		if req.WidthMm == nil {
			return orders.Submission{}, pkgerrors.New(pkgerrors.CodeValidation, "widthMm is required")
		}
		sub.WidthMm = *req.WidthMm
	}

	return sub, nil
}
