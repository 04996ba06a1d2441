package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/registrant-portal/internal/api/handlers"
	"github.com/isdelr/registrant-portal/internal/api/views"
	"github.com/isdelr/registrant-portal/internal/config"
	"github.com/isdelr/registrant-portal/internal/services"
	"github.com/isdelr/registrant-portal/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	db *sql.DB,
	hub *websocket.Hub,
	renderer *views.Renderer,
	sessionService services.SessionServiceProvider,
	notificationService services.NotificationServiceProvider,
	panelService services.PanelServiceProvider,
	formService services.FormServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	formHandler := handlers.NewFormHandler(formService, sessionService, panelService, notificationService, renderer)
	dashboardHandler := handlers.NewDashboardHandler(panelService, notificationService, renderer)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub, cfg.AllowedOrigins)

	r.Get("/healthz", healthHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(Sessions(sessionService, cfg.IsProduction()))

		// Pages
		r.Get("/", formHandler.ShowRegister)
		r.Post("/", formHandler.SubmitRegister)
		r.Get("/login", formHandler.ShowLogin)
		r.Post("/login", formHandler.SubmitLogin)
		r.Post("/logout", formHandler.Logout)
		r.Post("/forms/{form}/validate", formHandler.Validate)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Show)
			r.Post("/registrants/{id}/delete", dashboardHandler.Delete)
			r.Post("/registrants/{id}/edit", dashboardHandler.Edit)
			r.Post("/edit/update", dashboardHandler.Update)
			r.Post("/edit/cancel", dashboardHandler.Cancel)
		})

		// Endpoints reachable from other origins
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.AllowedOrigins,
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				ExposedHeaders:   []string{"Link"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
			r.Get("/ws", wsHandler.Serve)
			r.Get("/api/v1/notifications", notificationHandler.GetRecent)
		})
	})

	return r
}
