package session

import (
	"context"
	"testing"

	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
)

func TestTokenLifecycle(t *testing.T) {
	t.Parallel()

	store := NewStore(kvstore.NewMemoryStore())
	ctx := WithProfile(context.Background(), "p1")

	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		t.Fatalf("fresh profile should have no token, got %q", token)
	}

	if err := store.Save(ctx, "bearer-abc"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	token, err = store.Token(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "bearer-abc" {
		t.Fatalf("unexpected token %q", token)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	token, err = store.Token(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		t.Fatalf("token should be dropped, got %q", token)
	}
}

func TestTokensAreProfileScoped(t *testing.T) {
	t.Parallel()

	store := NewStore(kvstore.NewMemoryStore())
	ctxA := WithProfile(context.Background(), "p1")
	ctxB := WithProfile(context.Background(), "p2")

	if err := store.Save(ctxA, "tok-a"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	token, err := store.Token(ctxB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "" {
		t.Fatalf("profile p2 saw p1's token")
	}
}

func TestAnonymousContext(t *testing.T) {
	t.Parallel()

	store := NewStore(kvstore.NewMemoryStore())
	ctx := context.Background()

	if token, err := store.Token(ctx); err != nil || token != "" {
		t.Fatalf("anonymous token read should be empty, got %q err %v", token, err)
	}
	if err := store.Save(ctx, "tok"); err == nil {
		t.Fatalf("saving without a profile should fail")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("anonymous clear should be a no-op, got %v", err)
	}
	if ProfileID(nil) != "" {
		t.Fatalf("nil context should have no profile")
	}
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	store := NewStore(kvstore.NewMemoryStore())
	ctx := WithProfile(context.Background(), "p1")
	if err := store.Save(ctx, "   "); err == nil {
		t.Fatalf("expected validation error for empty token")
	}
}
