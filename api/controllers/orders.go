package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/armeria-vanguard/storefront-web/api/responses"
	"github.com/armeria-vanguard/storefront-web/internal/gateway"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
)

// OrdersService lists the recorded order lines for the current session.
type OrdersService interface {
	ListOrders(ctx context.Context) ([]gateway.OrderLine, error)
}

type orderLineView struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ListOrders returns the session's order history with product names resolved
// from the catalog. A product that no longer exists keeps its line; only the
// display name degrades.
func ListOrders(svc OrdersService, catalog CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		lines, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names := map[int64]string{}
		views := make([]orderLineView, 0, len(lines))
		for _, line := range lines {
			name, ok := names[line.ProductID]
			if !ok {
				name = resolveProductName(r.Context(), catalog, logg, line.ProductID)
				names[line.ProductID] = name
			}
			views = append(views, orderLineView{
				ID:        line.ID,
				ProductID: line.ProductID,
				Name:      name,
				Quantity:  line.Quantity,
				Price:     line.Price,
				Subtotal:  line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}

		responses.WriteSuccess(w, views)
	}
}

func resolveProductName(ctx context.Context, catalog CatalogService, logg *logger.Logger, productID int64) string {
	fallback := fmt.Sprintf("Producto #%d", productID)
	if catalog == nil {
		return fallback
	}
	product, err := catalog.GetProduct(ctx, productID)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "product_id", productID), "orders.product_lookup_failed")
		}
		return fallback
	}
	return product.Name
}
