package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/address"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// redisStore is the slice of the redis client the HTTP layer depends on.
type redisStore interface {
	controllers.Pinger
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	IdempotencyKey(scope, id string) string
}

type confirmationGuard interface {
	Evaluate(ctx context.Context, userID uuid.UUID) (checkout.Decision, error)
}

// Services groups the domain services mounted by the router.
type Services struct {
	Auth     auth.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Address  address.Service
	Checkout confirmationGuard
}

// Observability carries the prometheus collectors and the /metrics handler.
type Observability struct {
	HTTP    *metrics.HTTPMetrics
	Handler http.Handler
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient redisStore,
	sessions session.AccessSessionChecker,
	svc Services,
	obs Observability,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.Metrics(obs.HTTP),
		middleware.CORS(cfg.Storefront.CORSOrigins),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	if obs.Handler != nil {
		r.Method(http.MethodGet, "/metrics", obs.Handler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(svc.Auth, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.CatalogCategories(svc.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(svc.Catalog, logg))
			r.Get("/variants/{slug}", controllers.CatalogVariant(svc.Catalog, logg))
		})

		r.With(middleware.OptionalAuth(cfg.JWT, sessions, logg)).
			Get("/checkout/confirmation", controllers.CheckoutConfirmation(svc.Checkout, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svc.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
				r.Post("/items/increase", controllers.CartIncreaseItem(svc.Cart, logg))
				r.Post("/items/{cartItemId}/decrease", controllers.CartDecreaseItem(svc.Cart, logg))
				r.Delete("/items/{cartItemId}", controllers.CartRemoveItem(svc.Cart, logg))
				r.Patch("/shipping-address", controllers.CartBindShippingAddress(svc.Address, logg))
			})

			r.Get("/shipping-addresses", controllers.ShippingAddressList(svc.Address, logg))
			r.Post("/shipping-addresses", controllers.ShippingAddressCreate(svc.Address, logg))
		})
	})

	return r
}
