package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/armeria-vanguard/storefront-web/api/controllers"
	"github.com/armeria-vanguard/storefront-web/api/middleware"
	"github.com/armeria-vanguard/storefront-web/internal/cart"
	checkoutsvc "github.com/armeria-vanguard/storefront-web/internal/checkout"
	"github.com/armeria-vanguard/storefront-web/internal/session"
	"github.com/armeria-vanguard/storefront-web/pkg/config"
	"github.com/armeria-vanguard/storefront-web/pkg/logger"
	"github.com/armeria-vanguard/storefront-web/pkg/metrics"
)

// Gateway is everything the HTTP surface proxies to the remote backend.
type Gateway interface {
	controllers.CatalogService
	controllers.AuthService
	controllers.OrdersService
	controllers.AdminService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	carts *cart.Manager,
	sessions *session.Store,
	gw Gateway,
	checkoutService checkoutsvc.Service,
	pingers ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Profile(logg))

		r.Get("/products", controllers.ListProducts(gw, logg))
		r.Get("/products/{productId}", controllers.GetProduct(gw, logg))
		r.Get("/categories", controllers.ListCategories(gw, logg))

		r.Post("/auth/login", controllers.AuthLogin(gw, sessions, logg))
		r.Post("/auth/register", controllers.AuthRegister(gw, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(carts, logg))
			r.Delete("/", controllers.CartClear(carts, logg))
			r.Post("/items", controllers.CartAddItem(carts, gw, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(carts, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(carts, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, logg))

			r.Post("/checkout", controllers.Checkout(checkoutService, carts, logg))
			r.Get("/orders", controllers.ListOrders(gw, gw, logg))
			r.Get("/auth/me", controllers.AuthMe(gw, logg))
			r.Post("/auth/logout", controllers.AuthLogout(sessions, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Post("/products", controllers.AdminCreateProduct(gw, logg))
				r.Put("/products/{productId}", controllers.AdminUpdateProduct(gw, logg))
				r.Delete("/products/{productId}", controllers.AdminDeleteProduct(gw, logg))
				r.Post("/categories", controllers.AdminCreateCategory(gw, logg))
				r.Put("/categories/{categoryId}", controllers.AdminUpdateCategory(gw, logg))
				r.Delete("/categories/{categoryId}", controllers.AdminDeleteCategory(gw, logg))
			})
		})
	})

	return r
}
