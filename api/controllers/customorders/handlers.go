// Package customorders exposes the cut-to-size submission endpoints.
package customorders

import (
	"net/http"
	"strings"

	"github.com/DoonX23/ciseco-backend/api/middleware"
	"github.com/DoonX23/ciseco-backend/api/responses"
	"github.com/DoonX23/ciseco-backend/api/validators"
	"github.com/DoonX23/ciseco-backend/internal/orders"
	pkgerrors "github.com/DoonX23/ciseco-backend/pkg/errors"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
)

// Submit runs the full order pipeline and returns the variant and cart state.
// The cart token travels in the X-Cart-Session header both ways.
func Submit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID := strings.TrimSpace(r.Header.Get(middleware.CartSessionHeader))
		idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

		sub, err := payload.toSubmission(cartID, idempotencyKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sub)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(middleware.CartSessionHeader, result.CartID)
		responses.WriteSuccess(w, newSubmitPayload(result))
	}
}

// Quote prices a submission without provisioning anything.
func Quote(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := payload.toSubmission("", "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.QuoteOnly(r.Context(), sub)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponsePayload(quote))
	}
}
