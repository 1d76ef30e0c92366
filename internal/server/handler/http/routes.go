package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sealbid/sealbid/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the HTTP handler serving the vault and content
// API. It applies request logging, metrics and per-caller rate limiting
// globally, and bearer credential auth on the vault endpoints.
//
// Routes:
//
//	POST /api/challenge     → authHandler.Challenge (public)
//	GET  /api/whoami        → authHandler.Whoami    (bearer auth)
//	GET  /api/vault/{key}   → vaultHandler.Get      (bearer auth)
//	PUT  /api/vault/{key}   → vaultHandler.Put      (bearer auth)
//	POST /api/content       → contentHandler.Upload (public)
//	GET  /ipfs/{cid}        → contentHandler.Fetch  (public, gateway form)
//	GET  /metrics           → prometheus
func NewRouter(
	authHandler *AuthHandler,
	vaultHandler *VaultHandler,
	contentHandler *ContentHandler,
	verifier middleware.CredentialVerifier,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithMetrics)
	r.Use(limiter.Handler)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/challenge", authHandler.Challenge)
		r.Post("/content", contentHandler.Upload)

		// Protected group: requires a valid bearer credential
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))
			r.Get("/whoami", authHandler.Whoami)
			r.Get("/vault/{key}", vaultHandler.Get)
			r.Put("/vault/{key}", vaultHandler.Put)
		})
	})

	r.Get("/ipfs/{cid}", contentHandler.Fetch)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
