// Package session holds the externally issued bearer token for each browser
// profile. The token is opaque: it is stored, attached to requests and
// dropped, never parsed.
package session

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
)

type ctxKey struct{}

// WithProfile tags the context with the anonymous browser-profile identity.
func WithProfile(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, profileID)
}

// ProfileID returns the profile identity carried by the context, or "".
func ProfileID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// Store reads and writes the per-profile token slot in durable storage.
type Store struct {
	kv kvstore.Store
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Token returns the profile's bearer token, or "" when the profile is
// anonymous. A missing slot is not an error.
func (s *Store) Token(ctx context.Context) (string, error) {
	profileID := ProfileID(ctx)
	if profileID == "" {
		return "", nil
	}
	value, err := s.kv.Get(ctx, kvstore.TokenKey(profileID))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read session storage")
	}
	return strings.TrimSpace(value), nil
}

// Save stores the token issued by the auth backend.
func (s *Store) Save(ctx context.Context, token string) error {
	profileID := ProfileID(ctx)
	if profileID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile id required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "empty token")
	}
	if err := s.kv.Set(ctx, kvstore.TokenKey(profileID), token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session token")
	}
	return nil
}

// Clear drops the stored token. Clearing an anonymous profile is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	profileID := ProfileID(ctx)
	if profileID == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, kvstore.TokenKey(profileID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop session token")
	}
	return nil
}
