package router

import (
	"github.com/flexiforms/FlexiForms/internal/auth"
	"github.com/flexiforms/FlexiForms/internal/handlers"
	"github.com/flexiforms/FlexiForms/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, a *auth.Auth, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	requireAuth := middleware.RequireAuth(a)
	optionalAuth := middleware.OptionalAuth(a)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
	})

	r.Route("/api/forms", func(r chi.Router) {
		r.With(requireAuth).Post("/", handler.CreateForm)
		r.With(requireAuth).Get("/", handler.ListForms)
		r.With(requireAuth).Get("/expired", handler.ListExpiredForms)
		r.With(requireAuth).Get("/user/submissions", handler.ListUserSubmissions)

		r.With(requireAuth).Get("/submissions/{id}", handler.GetSubmission)
		r.With(requireAuth).Put("/submissions/{id}", handler.UpdateSubmission)
		r.With(requireAuth).Delete("/submissions/{id}", handler.DeleteSubmission)

		// Публичные маршруты
		r.Get("/shared/{identifier}", handler.GetSharedForm)
		r.Get("/{id}", handler.GetForm)
		r.With(optionalAuth).Post("/{id}/submit", handler.SubmitForm)

		r.With(requireAuth).Get("/{id}/submissions", handler.ListFormSubmissions)
		r.With(requireAuth).Put("/{id}", handler.UpdateForm)
		r.With(requireAuth).Delete("/{id}", handler.DeleteForm)
		r.With(requireAuth).Put("/{id}/expire", handler.ExpireForm)
		r.With(requireAuth).Put("/{id}/publish", handler.PublishForm)
	})

	r.Get("/uploads/{name}", handler.ServeUpload)
	r.Get("/ping", handler.Ping)

	return r
}
