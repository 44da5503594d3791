package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vkotov/checkpoint/internal/delivery/http/middleware"
	"github.com/vkotov/checkpoint/internal/domain"
	"github.com/vkotov/checkpoint/internal/pkg/config"
	"github.com/vkotov/checkpoint/internal/pkg/jwt"
	"github.com/vkotov/checkpoint/internal/pkg/logger"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler     *AuthHandler
	passHandler     *PassHandler
	crossingHandler *CrossingHandler
	tokenService    *jwt.TokenService
	metricsHandler  http.Handler
	config          *config.Config
	logger          logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	passHandler *PassHandler,
	crossingHandler *CrossingHandler,
	tokenService *jwt.TokenService,
	metricsHandler http.Handler,
	config *config.Config,
	logger logger.Logger,
) *Router {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	return &Router{
		authHandler:     authHandler,
		passHandler:     passHandler,
		crossingHandler: crossingHandler,
		tokenService:    tokenService,
		metricsHandler:  metricsHandler,
		config:          config,
		logger:          logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// Prometheus метрики
	r.Method(http.MethodGet, "/metrics", rt.metricsHandler)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			// Current user endpoints
			r.Get("/auth/me", rt.authHandler.GetMe)

			// Pass endpoints
			r.Route("/passes", func(r chi.Router) {
				r.Get("/me", rt.passHandler.GetMyPasses)
				r.Post("/", rt.passHandler.CreatePass)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", rt.passHandler.GetPassByID)
					r.Patch("/", rt.passHandler.UpdatePass)
					r.Post("/cancel", rt.passHandler.CancelPass)
					r.Post("/activate", rt.passHandler.ActivatePass)
					r.Post("/unwarn", rt.passHandler.UnwarnPass)

					// История проездов доступна владельцу и охране
					r.Get("/crossings", rt.crossingHandler.GetPassCrossings)

					// Фиксация проездов - только админ и охранник
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleGuard))
						r.Post("/crossings", rt.crossingHandler.RecordAuto)
						r.Post("/crossings/in", rt.crossingHandler.RecordEntry)
						r.Post("/crossings/out", rt.crossingHandler.RecordExit)
					})
				})
			})
		})
	})

	return r
}
