// Package socialhub собирает HTTP-приложение платформы мероприятий.
package socialhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Сгенерированная документация Swagger.
	_ "github.com/magabrotheeeer/social-hub/docs"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/admin/decide"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/admin/registrations"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/admin/requests"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/event/create"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/event/join"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/event/leave"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/event/list"
	eventread "github.com/magabrotheeeer/social-hub/internal/http/handlers/event/read"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/event/remove"
	eventupdate "github.com/magabrotheeeer/social-hub/internal/http/handlers/event/update"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/profile/organizer"
	profileread "github.com/magabrotheeeer/social-hub/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/social-hub/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/social-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/social-hub/internal/metrics"
	"github.com/magabrotheeeer/social-hub/internal/models"
)

// AuthService — регистрация, вход и проверка токена.
type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Service
}

// UserService — профиль текущего пользователя.
type UserService interface {
	profileread.Service
	profileupdate.Service
	organizer.Service
}

// EventService — каталог мероприятий и записи на них.
type EventService interface {
	list.Service
	eventread.Service
	create.Service
	eventupdate.Service
	remove.Service
	join.Service
	leave.Service
}

// AdminService — заявки организаторов и списки участников.
type AdminService interface {
	registrations.Service
	requests.Service
	decide.Service
}

// Services — сервисы, которые обслуживают маршруты.
type Services struct {
	Auth   AuthService
	Users  UserService
	Events EventService
	Admin  AdminService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, limiter *middlewarectx.LimiterStore, checks map[string]health.Pinger) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		metrics.HTTPMiddleware,
	)

	protect := middlewarectx.JWTMiddleware(svc.Auth, logger)
	limit := middlewarectx.RateLimitMiddleware(logger, limiter)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки, лимит по IP
		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
			r.Get("/publicEvents", list.New(logger, svc.Events).ServeHTTP)
			r.Get("/publicEvents/{id}", eventread.New(logger, svc.Events).ServeHTTP)
		})

		// Группа с JWT аутентификацией, лимит по пользователю
		r.Group(func(r chi.Router) {
			r.Use(protect, limit)
			r.Get("/users/profile", profileread.New(logger, svc.Users).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, svc.Users).ServeHTTP)
			r.Post("/users/request-organizer", organizer.New(logger, svc.Users).ServeHTTP)

			r.With(middlewarectx.Authorize(logger, models.RoleOrganizer, models.RoleAdmin)).
				Post("/events", create.New(logger, svc.Events).ServeHTTP)
			r.Put("/events/{id}", eventupdate.New(logger, svc.Events).ServeHTTP)
			r.Delete("/events/{id}", remove.New(logger, svc.Events).ServeHTTP)
			r.Post("/events/{id}/register", join.New(logger, svc.Events).ServeHTTP)
			r.Delete("/events/{id}/register", leave.New(logger, svc.Events).ServeHTTP)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(protect, limit)
			// Доступно любому аутентифицированному пользователю.
			r.Get("/events/{eventId}/registrations", registrations.New(logger, svc.Admin).ServeHTTP)

			// Всё ниже только для администратора.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.Authorize(logger, models.RoleAdmin))
				r.Get("/organizer-requests", requests.New(logger, svc.Admin).ServeHTTP)
				r.Put("/users/{id}/approve-organizer", decide.NewApprove(logger, svc.Admin).ServeHTTP)
				r.Put("/users/{id}/reject-organizer", decide.NewReject(logger, svc.Admin).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, checks).ServeHTTP)
	r.Handle("/metrics", metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
