package subsync

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/subsync/docs"
	companycreate "github.com/magabrotheeeer/subsync/internal/http/handlers/company/create"
	companylist "github.com/magabrotheeeer/subsync/internal/http/handlers/company/list"
	companyread "github.com/magabrotheeeer/subsync/internal/http/handlers/company/read"
	"github.com/magabrotheeeer/subsync/internal/http/handlers/health"
	"github.com/magabrotheeeer/subsync/internal/http/handlers/user/cancel"
	usercreate "github.com/magabrotheeeer/subsync/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/subsync/internal/http/handlers/user/enroll"
	"github.com/magabrotheeeer/subsync/internal/http/handlers/user/subscriptions"
	"github.com/magabrotheeeer/subsync/internal/http/middlewarectx"
	companyservice "github.com/magabrotheeeer/subsync/internal/services/company"
	subscriptionservice "github.com/magabrotheeeer/subsync/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subsync/internal/services/user"
)

// Services содержит сервисы, которые обслуживают маршруты.
type Services struct {
	Users         *userservice.UserService
	Subscriptions *subscriptionservice.SubscriptionService
	Companies     *companyservice.CompanyService
	Health        health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, limiter *rate.Limiter, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		r.Route("/user", func(r chi.Router) {
			r.Post("/", usercreate.New(logger, s.Users).ServeHTTP)
			r.Get("/{walletAddress}/subscriptions", subscriptions.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/{walletAddress}/enroll", enroll.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/{walletAddress}/cancel", cancel.New(logger, s.Subscriptions).ServeHTTP)
		})

		r.Route("/company", func(r chi.Router) {
			r.Post("/", companycreate.New(logger, s.Companies).ServeHTTP)
			r.Get("/", companylist.New(logger, s.Companies).ServeHTTP)
			r.Get("/{name}", companyread.New(logger, s.Companies).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
