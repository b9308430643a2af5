package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apimiddleware "github.com/phrazzld/exitcheck/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Core is everything the HTTP adapter drives. *app.App satisfies it.
type Core interface {
	StatsProvider
	MonitorController
	SessionController
	ItemManager
	HomeManager
}

// NewRouter builds the HTTP routes over core. A nil gatherer leaves
// /metrics unregistered.
func NewRouter(core Core, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if core == nil {
		panic("core cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.NewTraceMiddleware(logger))

	stats := NewStatsHandler(core)
	monitor := NewMonitorHandler(core)
	sessions := NewSessionHandler(core, logger)
	items := NewItemHandler(core)
	home := NewHomeHandler(core)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", stats.GetStats)

		r.Get("/monitor", monitor.GetMonitor)
		r.Post("/monitor/start", monitor.StartMonitoring)
		r.Post("/monitor/stop", monitor.StopMonitoring)

		r.Get("/session", sessions.GetSession)
		r.Delete("/session", sessions.Dismiss)
		r.Post("/session/test", sessions.TriggerTest)
		r.Post("/session/items/{id}/toggle", sessions.ToggleItem)
		r.Post("/session/complete", sessions.Complete)
		r.Post("/session/rush", sessions.Rush)

		r.Get("/items", items.ListItems)
		r.Post("/items", items.CreateItem)
		r.Put("/items/order", items.ReorderItems)
		r.Put("/items/{id}", items.UpdateItem)
		r.Delete("/items/{id}", items.DeleteItem)

		r.Get("/home", home.GetHome)
		r.Put("/home", home.SetHome)
		r.Delete("/home", home.ClearHome)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
