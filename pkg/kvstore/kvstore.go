// Package kvstore provides the durable string-keyed storage that backs
// per-profile carts and session tokens. It is the server-side analogue of the
// browser's localStorage: values are opaque strings, writes are synchronous,
// and a missing key is an ordinary condition rather than a failure.
package kvstore

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a durable string key-value store. Set must be durably persisted
// before it returns.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const (
	profilePrefix = "profile"
	cartSlot      = "cart"
	tokenSlot     = "access_token"
	keySeparator  = ":"
)

// CartKey returns the storage key holding the serialized cart for a profile.
func CartKey(profileID string) string {
	return buildKey(profilePrefix, profileID, cartSlot)
}

// TokenKey returns the storage key holding the bearer token for a profile.
func TokenKey(profileID string) string {
	return buildKey(profilePrefix, profileID, tokenSlot)
}

func buildKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, keySeparator)
}
