package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type confirmationGuard interface {
	Evaluate(ctx context.Context, userID uuid.UUID) (checkout.Decision, error)
}

// CheckoutConfirmation always answers 200 with the gate decision; clients follow redirect_to themselves.
func CheckoutConfirmation(guard confirmationGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if guard == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout guard unavailable"))
			return
		}

		decision, err := guard.Evaluate(r.Context(), middleware.UserUUIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !decision.Allowed && logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"reason":      decision.Reason,
				"redirect_to": decision.RedirectTo,
			})
			logg.Info(ctx, "checkout.confirmation.redirect")
		}
		responses.WriteSuccess(w, decision)
	}
}
