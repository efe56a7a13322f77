// The cache-gateway serves marketplace API routes behind the HTTP
// response cache middleware. It demonstrates the full wiring: store
// selection, JWT auth for private routes, per-route cache presets, and
// write-path invalidation.
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dedw3n/api-cache/internal/config"
	"github.com/dedw3n/api-cache/pkg/auth"
	"github.com/dedw3n/api-cache/pkg/cache"
	"github.com/dedw3n/api-cache/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		logger := logging.NewLogger("gateway")
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger := logging.NewLogger("gateway")

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("Failed to create cache store")
	}
	logger.Info().Str("backend", cfg.Backend).Msg("Cache store ready")

	verifier := auth.NewVerifier([]byte(cfg.JWTSecret))
	mw := cache.New(cache.Config{Store: store, UserID: auth.UserID})

	router := newRouter(mw, verifier, store, newCatalog())

	logger.Info().Str("addr", cfg.Addr).Msg("Starting cache gateway")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore creates the configured cache backend. The Redis backend is
// verified with a ping so misconfiguration fails at startup, not on the
// first degraded request.
func buildStore(cfg config.Config) (cache.Store, error) {
	if cfg.Backend == config.BackendMemory {
		return cache.NewMemoryStore(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return cache.NewRedisStore(redisClient), nil
}

// newRouter wires the marketplace routes behind the cache middleware.
func newRouter(mw *cache.Middleware, verifier *auth.Verifier, store cache.Store, cat *catalog) *chi.Mux {
	presets := cache.Presets(auth.IsAuthenticated)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "cache store unreachable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public catalog routes.
	r.With(mw.Handler(presets[cache.PresetPublicListing])).
		Get("/api/products", cat.handleList)
	r.With(mw.Handler(presets[cache.PresetPublicDetail])).
		Get("/api/products/{productID}", cat.handleDetail)
	r.With(mw.Handler(presets[cache.PresetSearch])).
		Get("/api/search", cat.handleSearch)

	// Private per-user routes.
	r.Group(func(pr chi.Router) {
		pr.Use(verifier.Middleware)
		pr.Use(auth.RequireUser)

		pr.With(mw.Handler(presets[cache.PresetUserCart])).
			Get("/api/cart", cat.handleCart)
		pr.With(mw.Handler(presets[cache.PresetUserProfile])).
			Get("/api/profile", cat.handleProfile)

		pr.Post("/api/products", func(w http.ResponseWriter, r *http.Request) {
			cat.handleCreate(w, r)
			if _, err := mw.Invalidate(r.Context(), "/api/products"); err != nil {
				// Stale listings until TTL expiry; the write itself succeeded.
				logger := logging.NewLogger("gateway")
				logger.Warn().Err(err).Msg("Product cache invalidation failed")
			}
		})
		pr.Post("/api/cart/items", func(w http.ResponseWriter, r *http.Request) {
			cat.handleAddCartItem(w, r)
			// Only this user's cached cart is invalidated.
			key := "/api/cart|user:" + auth.UserID(r)
			if _, err := mw.Invalidate(r.Context(), key); err != nil {
				logger := logging.NewLogger("gateway")
				logger.Warn().Err(err).Msg("Cart cache invalidation failed")
			}
		})
	})

	return r
}
