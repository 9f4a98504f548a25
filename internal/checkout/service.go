// Package checkout converts the current cart into an order draft and submits
// it exactly once per user action.
package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/armeria-vanguard/storefront-web/internal/cart"
	"github.com/armeria-vanguard/storefront-web/internal/gateway"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
)

// OrderPlacer is the gateway surface used to submit a draft.
type OrderPlacer interface {
	SubmitOrder(ctx context.Context, items []gateway.OrderItem) ([]gateway.OrderLine, error)
}

// TokenSource answers whether the profile currently holds a bearer token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// CartStore is the slice of the cart store the checkout flow needs.
type CartStore interface {
	Lines() []cart.Line
	Clear(ctx context.Context) (cart.Cart, error)
}

// Confirmation summarizes a successfully placed order.
type Confirmation struct {
	ItemCount int                 `json:"item_count"`
	Total     decimal.Decimal     `json:"total"`
	Lines     []gateway.OrderLine `json:"lines"`
}

// Service submits the profile's cart as an order.
type Service interface {
	Submit(ctx context.Context, store CartStore) (*Confirmation, error)
}

type service struct {
	placer   OrderPlacer
	sessions TokenSource
}

func NewService(placer OrderPlacer, sessions TokenSource) (Service, error) {
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{placer: placer, sessions: sessions}, nil
}

// Submit validates the preconditions locally, posts the draft and, only on
// success, clears the cart. A failed submission leaves the cart exactly as it
// was so the user can retry. Retries are not deduplicated by the backend.
func (s *service) Submit(ctx context.Context, store CartStore) (*Confirmation, error) {
	token, err := s.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "sign in to place an order")
	}

	lines := store.Lines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	items := make([]gateway.OrderItem, 0, len(lines))
	total := decimal.Zero
	count := 0
	for _, line := range lines {
		productID, err := strconv.ParseInt(line.ProductID, 10, 64)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart line has malformed product id").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		items = append(items, gateway.OrderItem{
			ProductID: productID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
		total = total.Add(line.Subtotal())
		count += line.Quantity
	}

	created, err := s.placer.SubmitOrder(ctx, items)
	if err != nil {
		return nil, err
	}

	if _, err := store.Clear(ctx); err != nil {
		// The backend accepted the order; surfacing the storage failure
		// matters more than pretending the checkout failed.
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order placed but cart could not be cleared")
	}

	return &Confirmation{
		ItemCount: count,
		Total:     total,
		Lines:     created,
	}, nil
}
