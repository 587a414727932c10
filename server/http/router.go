package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"order-intake/internal/config"
	intakeHnd "order-intake/internal/intake/handler"
	"order-intake/internal/middleware"
	"order-intake/server/http/handlers"
)

// Observability bundles what the router exposes besides the API.
type Observability struct {
	HTTP    middleware.HTTPObserver
	Metrics http.Handler
	DB      handlers.Pinger
}

func NewRouter(cfg config.Config, logger zerolog.Logger, h *intakeHnd.Handler, obs Observability) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger, obs.HTTP))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20))

	r.Get("/health", handlers.Health(obs.DB))
	if obs.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", obs.Metrics)
	}

	r.Get("/catalog", h.ListCatalog)
	r.Post("/catalog/import", h.ImportCatalog)

	r.Get("/orders", h.ListOrders)

	r.Post("/parse", h.Parse)
	r.Post("/quick", h.Quick)

	r.Route("/boards", func(r chi.Router) {
		r.Post("/", h.CreateBoard)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetBoard)
			r.Delete("/", h.CloseBoard)
			r.Post("/move", h.MoveItem)
			r.Post("/cards", h.AddCard)
			r.Route("/cards/{card}", func(r chi.Router) {
				r.Patch("/", h.RenameCard)
				r.Delete("/", h.DiscardCard)
				r.Post("/dispatch", h.Dispatch)
				r.Post("/items", h.AddItem)
				r.Patch("/items/{item}", h.UpdateItem)
				r.Delete("/items/{item}", h.DeleteItem)
			})
		})
	})

	return r
}
