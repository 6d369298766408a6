package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cotizador/go_backend/internal/app/config"
	"cotizador/go_backend/internal/app/http/handlers"
	"cotizador/go_backend/internal/app/http/middleware"
	"cotizador/go_backend/internal/platform/logger"
)

func NewRouter(cfg config.Config, log *logger.Logger, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {

		r.Get("/products", h.ListProducts)

		r.Group(func(r chi.Router) {
			r.Use(middleware.InternalAuth(cfg.InternalToken))

			r.Post("/products", h.CreateProduct)
			r.Post("/products/reset", h.ResetProducts)
			r.Put("/products/{sku}", h.UpdateProduct)
			r.Delete("/products/{sku}", h.DeleteProduct)

			r.Post("/quotes", h.CreateQuote)
			r.Post("/quotes/preview", h.PreviewQuote)
		})
	})

	return r
}
