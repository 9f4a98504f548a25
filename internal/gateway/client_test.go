package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/armeria-vanguard/storefront-web/pkg/config"
	pkgerrors "github.com/armeria-vanguard/storefront-web/pkg/errors"
)

type stubSessions struct {
	token   string
	cleared int
}

func (s *stubSessions) Token(ctx context.Context) (string, error) { return s.token, nil }
func (s *stubSessions) Clear(ctx context.Context) error {
	s.cleared++
	s.token = ""
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, sessions *stubSessions) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, ClientTimeout: 5 * time.Second}, sessions, nil)
	require.NoError(t, err)
	return client
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	t.Parallel()

	var gotAuth string
	sessions := &stubSessions{token: "tok-123"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Product{})
	}), sessions)

	_, err := client.ListProducts(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Category{})
	}), &stubSessions{})

	_, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestCategoryFilterQuery(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Product{})
	}), &stubSessions{})

	categoryID := int64(7)
	_, err := client.ListProducts(context.Background(), &categoryID)
	require.NoError(t, err)
	require.Equal(t, "category_id=7", gotQuery)
}

func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		sessions := &stubSessions{token: "stale"}
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"detail": "No se pudo validar las credenciales"})
		}), sessions)

		_, err := client.Me(context.Background())
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeSessionExpired, typed.Code())
		require.Equal(t, "No se pudo validar las credenciales", typed.Message())
		require.Equal(t, 1, sessions.cleared, "status %d must drop the token", status)
		require.Empty(t, sessions.token)
	}
}

func TestBackendErrorSurfacesDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "la base de datos no responde"})
	}), &stubSessions{})

	_, err := client.ListProducts(context.Background(), nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeBackend, typed.Code())
	require.Equal(t, "la base de datos no responde", typed.Message())
}

func TestNotFoundMapsToNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Pedido no encontrado"})
	}), &stubSessions{})

	_, err := client.GetProduct(context.Background(), 99)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestEmptyBodySuccessIsValid(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), &stubSessions{token: "tok"})

	require.NoError(t, client.DeleteProduct(context.Background(), 5))
}

func TestNetworkFailureCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, ClientTimeout: time.Second}, &stubSessions{}, nil)
	require.NoError(t, err)
	server.Close()

	_, err = client.ListProducts(context.Background(), nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNetwork, typed.Code())
}

func TestLoginReturnsToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ana@example.com", body["email"])
		json.NewEncoder(w).Encode(map[string]string{"access_token": "jwt-abc", "token_type": "bearer"})
	}), &stubSessions{})

	token, err := client.Login(context.Background(), "ana@example.com", "secreta")
	require.NoError(t, err)
	require.Equal(t, "jwt-abc", token)
}

func TestLoginRejectsMissingToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}), &stubSessions{})

	_, err := client.Login(context.Background(), "ana@example.com", "secreta")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeBackend, typed.Code())
}

func TestSubmitOrderPostsDraftLines(t *testing.T) {
	t.Parallel()

	var received []map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode([]OrderLine{{ID: 1, ProductID: 3, Quantity: 2}})
	}), &stubSessions{token: "tok"})

	created, err := client.SubmitOrder(context.Background(), []OrderItem{
		{ProductID: 3, Quantity: 2, Price: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, received, 1)
	require.Equal(t, float64(3), received[0]["product_id"])
	require.Equal(t, float64(2), received[0]["quantity"])
}
