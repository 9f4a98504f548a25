package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// persistedLine is the lenient durable shape: quantity arrives as any JSON
// number (or not at all) and the price tolerates both number and string
// encodings. hydrate-time repair decides what survives.
type persistedLine struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    *float64        `json:"quantity"`
}

func encodeCart(c Cart) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeCart parses a durable cart payload, silently discarding entries that
// are unreadable or violate the line invariant. An unparsable document yields
// the empty cart: corrupt local state never blocks the storefront.
func decodeCart(raw string) Cart {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return Cart{}
	}

	out := make(Cart, len(entries))
	for key, rawLine := range entries {
		line, ok := repairLine(key, rawLine)
		if !ok {
			continue
		}
		out[line.ProductID] = line
	}
	return out
}

func repairLine(key string, raw json.RawMessage) (Line, bool) {
	var p persistedLine
	if err := json.Unmarshal(raw, &p); err != nil {
		return Line{}, false
	}
	if p.Quantity == nil || *p.Quantity <= 0 {
		return Line{}, false
	}
	quantity := int(*p.Quantity)
	if float64(quantity) != *p.Quantity || quantity < 1 {
		return Line{}, false
	}
	if p.UnitPrice.IsNegative() {
		return Line{}, false
	}

	productID := p.ProductID
	if productID == "" {
		productID = key
	}
	if productID == "" {
		return Line{}, false
	}

	return Line{
		ProductID:   productID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		UnitPrice:   p.UnitPrice,
		Quantity:    quantity,
	}, true
}
