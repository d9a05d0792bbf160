package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tvillarrealb/shopstack-backend/api/controllers"
	"github.com/tvillarrealb/shopstack-backend/api/middleware"
	addresssvc "github.com/tvillarrealb/shopstack-backend/internal/address"
	"github.com/tvillarrealb/shopstack-backend/internal/auth"
	cartsvc "github.com/tvillarrealb/shopstack-backend/internal/cart"
	ordersvc "github.com/tvillarrealb/shopstack-backend/internal/orders"
	"github.com/tvillarrealb/shopstack-backend/internal/products"
	"github.com/tvillarrealb/shopstack-backend/pkg/config"
	"github.com/tvillarrealb/shopstack-backend/pkg/db"
	"github.com/tvillarrealb/shopstack-backend/pkg/enums"
	"github.com/tvillarrealb/shopstack-backend/pkg/logger"
	"github.com/tvillarrealb/shopstack-backend/pkg/metrics"
	pkgredis "github.com/tvillarrealb/shopstack-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *pkgredis.Client
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
	Auth      auth.Service
	Products  products.Service
	Cart      cartsvc.Service
	Orders    ordersvc.Service
	Addresses addresssvc.Service
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
	})

	// Public catalog reads.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(deps.Products, logg))
		r.Get("/products/{productId}", controllers.ProductsGet(deps.Products, logg))
		r.Get("/categories", controllers.CategoriesList(deps.Products, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Idempotency.TTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.RoleSeller)).Post("/", controllers.ProductsCreate(deps.Products, logg))
			r.With(middleware.RequireRole(logg, enums.RoleSeller)).Put("/{productId}", controllers.ProductsUpdate(deps.Products, logg))
			r.With(middleware.RequireRole(logg, enums.RoleSeller)).Delete("/{productId}", controllers.ProductsDelete(deps.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(middleware.RequireRole(logg)).Post("/", controllers.CategoriesCreate(deps.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Put("/items", controllers.CartAddQuantity(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartApplyOperation(deps.Cart, logg))
			r.Delete("/{cartId}/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartDelete(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersPlace(deps.Orders, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrdersCancel(deps.Orders, logg))
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleSeller))
			r.Get("/dashboard/stats", controllers.SellerDashboardStats(deps.Orders, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.SellerOrdersList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.SellerOrderGet(deps.Orders, logg))
				r.Put("/{orderId}/status", controllers.SellerOrderUpdateStatus(deps.Orders, logg))
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Put("/email", controllers.ProfileUpdateEmail(deps.Auth, logg))
			r.Put("/password", controllers.ProfileChangePassword(deps.Auth, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressesCreate(deps.Addresses, logg))
			r.Get("/", controllers.AddressesList(deps.Addresses, logg))
			r.Get("/{addressId}", controllers.AddressesGet(deps.Addresses, logg))
			r.Put("/{addressId}", controllers.AddressesUpdate(deps.Addresses, logg))
			r.Delete("/{addressId}", controllers.AddressesDelete(deps.Addresses, logg))
		})
	})

	return r
}
