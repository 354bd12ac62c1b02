package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Local storefront dev, the production storefront, and the shop's own
// preview domains.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://www.doonx.com",
	"https://*.myshopify.com",
	"https://ciseco.oxygenhosted.com",
}

// CORS returns middleware that applies the storefront origin policy. The
// cart session header is exposed so the storefront can persist the token
// across submissions.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Cart-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Cart-Session", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
