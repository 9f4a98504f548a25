package cart

import (
	"context"
	"sync"

	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
)

// Manager hands out one Store per browser profile, hydrating it from durable
// storage the first time the profile is seen. Every surface asking for the
// same profile gets the same Store, so post-mutation reads are never stale.
type Manager struct {
	mu     sync.Mutex
	kv     kvstore.Store
	stores map[string]*Store
}

func NewManager(kv kvstore.Store) *Manager {
	return &Manager{
		kv:     kv,
		stores: map[string]*Store{},
	}
}

// StoreFor returns the profile's cart store, creating and hydrating it on
// first access. A store is published only after hydration succeeds, so a
// failed read leaves nothing cached and the next request retries against
// the durable slot instead of adopting an empty cart over it.
func (m *Manager) StoreFor(ctx context.Context, profileID string) (*Store, error) {
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[profileID]; ok {
		return store, nil
	}

	store := NewStore(m.kv, profileID)
	if _, err := store.Hydrate(ctx); err != nil {
		return nil, err
	}
	m.stores[profileID] = store
	return store, nil
}
