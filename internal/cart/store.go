package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
)

// Store is the single source of truth for one profile's cart. Every mutation
// persists the resulting cart before it returns, so the in-memory state and
// its durable mirror are never observably out of sync. Mutations are
// all-or-nothing: when persistence fails the in-memory cart keeps its
// pre-mutation state.
type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	key   string
	lines Cart
}

func NewStore(kv kvstore.Store, profileID string) *Store {
	return &Store{
		kv:    kv,
		key:   kvstore.CartKey(profileID),
		lines: Cart{},
	}
}

// Hydrate loads the durable cart, repairing invalid entries, and adopts it as
// current state. A missing or unparsable slot is the defined initial state,
// not an error; only a storage backend failure surfaces.
func (s *Store) Hydrate(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			s.lines = Cart{}
			return s.lines.clone(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read cart storage")
	}

	s.lines = decodeCart(raw)
	return s.lines.clone(), nil
}

// AddItem puts the product in the cart, clamping quantity to a minimum of
// one. An existing line keeps its add-time display fields and price; only its
// quantity grows.
func (s *Store) AddItem(ctx context.Context, item Item, quantity int) (Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.lines.clone()
	if line, ok := next[item.ProductID]; ok {
		line.Quantity += quantity
		next[item.ProductID] = line
	} else {
		next[item.ProductID] = Line{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			UnitPrice:   item.UnitPrice,
			Quantity:    quantity,
		}
	}

	return s.commitLocked(ctx, next)
}

// SetQuantity overwrites the line's quantity with the literal value. Zero or
// below removes the line; an absent product is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, productID)
	}

	line, ok := s.lines[productID]
	if !ok {
		return s.lines.clone(), nil
	}

	next := s.lines.clone()
	line.Quantity = quantity
	next[productID] = line
	return s.commitLocked(ctx, next)
}

// RemoveItem deletes the line if present; absent is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

// Clear resets to the empty cart. Safe to call repeatedly.
func (s *Store) Clear(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, Cart{})
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.clone()
}

// Lines returns the current entries ordered by product ID.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.Lines()
}

// TotalItemCount sums every line's quantity; zero for the empty cart.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.TotalItemCount()
}

// TotalPrice is the unrounded sum of unit price times quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.TotalPrice()
}

func (s *Store) removeLocked(ctx context.Context, productID string) (Cart, error) {
	if _, ok := s.lines[productID]; !ok {
		return s.lines.clone(), nil
	}
	next := s.lines.clone()
	delete(next, productID)
	return s.commitLocked(ctx, next)
}

func (s *Store) commitLocked(ctx context.Context, next Cart) (Cart, error) {
	raw, err := encodeCart(next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart")
	}
	s.lines = next
	return next.clone(), nil
}
