package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armeria-vanguard/storefront-web/internal/gateway"
	"github.com/armeria-vanguard/storefront-web/internal/session"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
	"github.com/armeria-vanguard/storefront-web/pkg/kvstore"
)

type stubAuth struct {
	token    string
	loginErr error
}

func (s stubAuth) Login(ctx context.Context, email, password string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return s.token, nil
}

func (s stubAuth) Register(ctx context.Context, email, password string) error { return nil }

func (s stubAuth) Me(ctx context.Context) (*gateway.User, error) {
	return &gateway.User{ID: 1, Email: "ana@example.com"}, nil
}

func TestAuthLoginStoresToken(t *testing.T) {
	t.Parallel()

	sessions := session.NewStore(kvstore.NewMemoryStore())
	handler := AuthLogin(stubAuth{token: "jwt-abc"}, sessions, nil)

	req := profileRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secreta"}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	token, err := sessions.Token(req.Context())
	require.NoError(t, err)
	require.Equal(t, "jwt-abc", token)
}

func TestAuthLoginKeepsProfileAnonymousOnFailure(t *testing.T) {
	t.Parallel()

	sessions := session.NewStore(kvstore.NewMemoryStore())
	failure := pkgerrors.New(pkgerrors.CodeSessionExpired, "credenciales incorrectas")
	handler := AuthLogin(stubAuth{loginErr: failure}, sessions, nil)

	req := profileRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"mala"}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	token, err := sessions.Token(req.Context())
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestAuthLogoutClearsToken(t *testing.T) {
	t.Parallel()

	sessions := session.NewStore(kvstore.NewMemoryStore())
	req := profileRequest(http.MethodPost, "/api/auth/logout", "")
	require.NoError(t, sessions.Save(req.Context(), "jwt-abc"))

	handler := AuthLogout(sessions, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	token, err := sessions.Token(req.Context())
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestAuthRegisterRequiresStrongPassword(t *testing.T) {
	t.Parallel()

	handler := AuthRegister(stubAuth{}, nil)
	rec := httptest.NewRecorder()
	handler(rec, profileRequest(http.MethodPost, "/api/auth/register", `{"email":"ana@example.com","password":"corta"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
