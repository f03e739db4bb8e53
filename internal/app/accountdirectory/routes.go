// Package accountdirectory собирает HTTP-маршруты и зависимости сервиса каталога учётных записей.
package accountdirectory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация swagger-документации.
	_ "github.com/magabrotheeeer/account-directory/docs"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/health"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/matchtoken"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/register"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/status"
	"github.com/magabrotheeeer/account-directory/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/account-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
)

// RouteDeps — зависимости HTTP-маршрутов.
type RouteDeps struct {
	Directory    *directory.Directory
	Pinger       health.Pinger // nil, если хранилище не требует проверки
	Registry     *prometheus.Registry
	Limiter      *rate.Limiter
	RequireToken bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps RouteDeps) {
	metrics := middlewarectx.NewMetrics(deps.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, deps.Limiter))

		r.Get("/health", health.New(logger, deps.Pinger).ServeHTTP)

		r.Get("/users", list.New(logger, deps.Directory).ServeHTTP)
		r.Post("/users", register.New(logger, deps.Directory).ServeHTTP)
		r.Get("/users/{userID}", read.New(logger, deps.Directory).ServeHTTP)
		r.Post("/users/{userID}/edit", matchtoken.New(logger, deps.Directory).ServeHTTP)

		r.Post("/login", login.New(logger, deps.Directory).ServeHTTP)
		r.Put("/login", logout.New(logger, deps.Directory).ServeHTTP)

		// Изменения, доступные только владельцу токена, если включено http_server.require_token
		r.Group(func(r chi.Router) {
			if deps.RequireToken {
				r.Use(middlewarectx.OwnerTokenMiddleware(deps.Directory, logger))
			}
			r.Put("/users/{userID}/edit", update.New(logger, deps.Directory).ServeHTTP)
			r.Put("/users/{userID}", status.New(logger, deps.Directory).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
