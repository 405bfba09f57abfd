package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bistrohub/ordering/api/controllers"
	"github.com/bistrohub/ordering/api/middleware"
	"github.com/bistrohub/ordering/pkg/config"
	"github.com/bistrohub/ordering/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessionStore controllers.Pinger,
	catalogCache controllers.CatalogSource,
	wizards controllers.WizardSessions,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, sessionStore))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogSnapshot(catalogCache, logg))
			r.Post("/refresh", controllers.CatalogRefresh(catalogCache, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Get("/wizard", controllers.WizardView(wizards, logg))
			r.Post("/wizard/events", controllers.WizardEvent(wizards, logg))
			r.Get("/tracking", controllers.TrackingHandle(wizards, logg))
			r.Delete("/tracking", controllers.ForgetTracking(wizards, logg))
		})
	})

	return r
}
