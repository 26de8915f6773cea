package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Pineacles/habit-pulse/internal/config"
	"github.com/Pineacles/habit-pulse/internal/handlers"
	"github.com/Pineacles/habit-pulse/internal/middleware"
	"github.com/Pineacles/habit-pulse/internal/repository"
	"github.com/Pineacles/habit-pulse/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	userRepo := repository.NewUserRepository(database)
	goalRepo := repository.NewGoalRepository(database)
	completionRepo := repository.NewCompletionRepository(database)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	goalService := services.NewGoalService(goalRepo, completionRepo)

	authHandler := handlers.NewAuthHandler(authService)
	goalHandler := handlers.NewGoalHandler(goalService)
	calendarHandler := handlers.NewCalendarHandler(goalService)
	icalHandler := handlers.NewICalHandler(goalService)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authService, userRepo))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", goalHandler.List)
				r.Post("/", goalHandler.Create)
				r.Post("/reorder", goalHandler.Reorder)
				r.Get("/calendar", calendarHandler.Calendar)
				r.Get("/calendar/day", calendarHandler.Day)
				r.Get("/ical", icalHandler.Feed)
				r.Get("/{id}", goalHandler.Get)
				r.Put("/{id}", goalHandler.Update)
				r.Delete("/{id}", goalHandler.Delete)
				r.Post("/{id}/toggle", goalHandler.Toggle)
			})
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Handler exposes the router, mainly so tests can serve it directly.
func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
