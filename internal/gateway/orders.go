package gateway

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// OrderItem is one submitted order line. Price is the cart's add-time price;
// the backend records it verbatim.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderLine is a recorded order entry as returned by the backend.
type OrderLine struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// SubmitOrder posts the order draft. One call, one backend order; retrying a
// failed call after a partial backend write may duplicate orders, which the
// backend contract accepts.
func (c *Client) SubmitOrder(ctx context.Context, items []OrderItem) ([]OrderLine, error) {
	var created []OrderLine
	if err := c.do(ctx, http.MethodPost, "/orders", nil, items, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// ListOrders returns the recorded order lines for the current session.
func (c *Client) ListOrders(ctx context.Context) ([]OrderLine, error) {
	var lines []OrderLine
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
