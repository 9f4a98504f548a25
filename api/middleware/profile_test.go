package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/armeria-vanguard/storefront-web/internal/session"
)

func TestProfileIssuesCookieForNewBrowser(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Profile(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.ProfileID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, profileCookieName, cookies[0].Name)
	require.Equal(t, seen, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestProfileReusesExistingCookie(t *testing.T) {
	t.Parallel()

	existing := uuid.NewString()
	var seen string
	handler := Profile(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.ProfileID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: profileCookieName, Value: existing})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, existing, seen)
	require.Empty(t, rec.Result().Cookies(), "a valid cookie must not be reissued")
}

func TestProfileReplacesMalformedCookie(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Profile(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.ProfileID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: profileCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotEmpty(t, seen)
	require.NotEqual(t, "not-a-uuid", seen)
	require.Len(t, rec.Result().Cookies(), 1)
}
