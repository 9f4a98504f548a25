package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/armeria-vanguard/storefront-web/api/responses"
	"github.com/armeria-vanguard/storefront-web/api/validators"
	"github.com/armeria-vanguard/storefront-web/internal/cart"
	"github.com/armeria-vanguard/storefront-web/internal/session"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
)

type cartView struct {
	Lines        []cart.Line     `json:"lines"`
	TotalItems   int             `json:"totalItems"`
	Total        decimal.Decimal `json:"total"`
	TotalDisplay string          `json:"totalDisplay"`
}

func viewOf(store *cart.Store) cartView {
	total := store.TotalPrice()
	return cartView{
		Lines:        store.Lines(),
		TotalItems:   store.TotalItemCount(),
		Total:        total,
		TotalDisplay: total.StringFixed(2),
	}
}

func cartStoreFrom(ctx context.Context, carts *cart.Manager) (*cart.Store, error) {
	return carts.StoreFor(ctx, session.ProfileID(ctx))
}

// CartFetch returns the profile's current cart.
func CartFetch(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"`
}

// CartAddItem resolves the product against the backend and merges it into the
// cart at its current price. The price is frozen at add time.
func CartAddItem(carts *cart.Manager, catalog CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := cart.Item{
			ProductID:   strconv.FormatInt(product.ID, 10),
			Name:        product.Name,
			Description: product.Description,
			ImageURL:    product.ImageURL,
			UnitPrice:   product.Price,
		}
		if _, err := store.AddItem(r.Context(), item, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewOf(store))
	}
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartSetQuantity overwrites a line's quantity. Zero or below removes the line.
func CartSetQuantity(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.SetQuantity(r.Context(), productID, *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartRemoveItem drops the line if present.
func CartRemoveItem(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.RemoveItem(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartClear empties the cart.
func CartClear(carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFrom(r.Context(), carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewOf(store))
	}
}
