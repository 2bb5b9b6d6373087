package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xela07ax/playtrace/internal/handler"
	"github.com/xela07ax/playtrace/internal/infra"
	"go.uber.org/zap"
)

// APIServer — HTTP-поверхность сервиса: ингест телеметрии, аналитика зон,
// отчеты и административные удаления.
type APIServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Обработчики бизнес-доменов
	eventsHandler    *handler.EventsHandler    // /api/events
	analyticsHandler *handler.AnalyticsHandler // /api/heatmap, /api/zones
	reportsHandler   *handler.ReportsHandler   // /api/levels, /api/sessions
	adminHandler     *handler.AdminHandler     // /api/admin
}

// NewAPIServer собирает роутер со всеми зависимостями.
func NewAPIServer(
	cfg *infra.Config,
	logger *zap.Logger,
	eventsH *handler.EventsHandler,
	analyticsH *handler.AnalyticsHandler,
	reportsH *handler.ReportsHandler,
	adminH *handler.AdminHandler,
) *APIServer {
	s := &APIServer{
		router:           chi.NewRouter(),
		logger:           logger.Named("api-server"),
		cfg:              cfg,
		eventsHandler:    eventsH,
		analyticsHandler: analyticsH,
		reportsHandler:   reportsH,
		adminHandler:     adminH,
	}

	s.routes()
	return s
}

func (s *APIServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TracingMiddleware)

	// Healthcheck для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		// Путь ингеста под собственным rate limit'ом
		r.Group(func(r chi.Router) {
			r.Use(IngestRateLimit(s.cfg.Server.IngestRateLimit, s.cfg.Server.IngestBurst, s.logger))
			r.Mount("/events", s.eventsHandler.Routes())
		})

		// Аналитика и отчеты (read-only)
		r.Get("/heatmap", s.analyticsHandler.GetHeatmap)
		r.Get("/zones", s.analyticsHandler.GetZones)
		r.Get("/levels", s.reportsHandler.ListLevels)
		r.Get("/levels/{levelID}/report", s.reportsHandler.LevelReport)
		r.Get("/sessions", s.reportsHandler.ListSessions)

		// Административные операции; авторизация — во внешнем периметре
		r.Mount("/admin", s.adminHandler.Routes())
	})
}

// ServeHTTP позволяет использовать APIServer как стандартный http.Handler
func (s *APIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
