// Package cart owns the authoritative per-profile shopping cart: the
// in-memory lines, their durable mirror in key-value storage, and the derived
// aggregates shown by every view.
package cart

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Item describes a product as captured at the moment it is added. The price
// is the add-time price and is never refreshed from the catalog; drift from
// the live listing is accepted.
type Item struct {
	ProductID   string
	Name        string
	Description string
	ImageURL    string
	UnitPrice   decimal.Decimal
}

// Line is one product-and-quantity entry. A line with quantity below one is
// never held in memory or persisted.
type Line struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product ID to its line. Key order carries no meaning.
type Cart map[string]Line

func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	for key, line := range c {
		next[key] = line
	}
	return next
}

// Lines returns the cart's entries ordered by product ID for stable rendering.
func (c Cart) Lines() []Line {
	lines := make([]Line, 0, len(c))
	for _, line := range c {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// TotalItemCount sums every line's quantity.
func (c Cart) TotalItemCount() int {
	var total int
	for _, line := range c {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines, unrounded.
// Renderers round to two places at display time.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}
