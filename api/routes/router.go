// Package routes assembles the HTTP surface of the API service.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DoonX23/ciseco-backend/api/controllers"
	"github.com/DoonX23/ciseco-backend/api/controllers/customorders"
	"github.com/DoonX23/ciseco-backend/api/middleware"
	"github.com/DoonX23/ciseco-backend/internal/orders"
	"github.com/DoonX23/ciseco-backend/pkg/config"
	"github.com/DoonX23/ciseco-backend/pkg/logger"
	pkgredis "github.com/DoonX23/ciseco-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	idempotencyStore pkgredis.IdempotencyStore,
	ordersService orders.Service,
	readiness map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// The submission route is registered flat so the idempotency rule can
	// match the chi route pattern exactly.
	r.With(middleware.Idempotency(idempotencyStore, logg)).
		Post("/api/v1/custom-orders", customorders.Submit(ordersService, logg))
	r.Post("/api/v1/custom-orders/quote", customorders.Quote(ordersService, logg))

	return r
}
