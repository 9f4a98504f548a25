package controllers

import (
	"net/http"

	"github.com/armeria-vanguard/storefront-web/api/responses"
	"github.com/armeria-vanguard/storefront-web/internal/cart"
	checkoutsvc "github.com/armeria-vanguard/storefront-web/internal/checkout"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
)

// Checkout submits the profile's cart as an order.
func Checkout(svc checkoutsvc.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.Submit(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
