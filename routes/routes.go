package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/nexusarena/tournament-service/docs"
	"github.com/nexusarena/tournament-service/handlers"
	"github.com/nexusarena/tournament-service/middleware"
	"github.com/nexusarena/tournament-service/models"
)

// Options carries the dependencies and policy switches for route setup.
type Options struct {
	JWTSecret []byte

	// OpenTournamentManagement disables the auth gate on tournament
	// create/update/delete/image endpoints.
	OpenTournamentManagement bool
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticator(opts.JWTSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)

		// Must be registered before the {tournamentID} wildcard: "user"
		// would otherwise be captured as a tournament id.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/user/history", participantHandler.UserHistoryHandler)
		})

		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/participants", participantHandler.ListHandler)
		r.Post("/{tournamentID}/register", participantHandler.RegisterHandler)

		// Tournament management: open or admin-gated by configuration.
		r.Group(func(r chi.Router) {
			if !opts.OpenTournamentManagement {
				r.Use(authenticate)
				r.Use(adminOnly)
			}
			r.Post("/", tournamentHandler.CreateHandler)
			r.Put("/{tournamentID}", tournamentHandler.UpdateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Post("/{tournamentID}/image", tournamentHandler.UploadImageHandler)
		})

		// Participant status management is always admin-gated.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Put("/{tournamentID}/participants", participantHandler.UpdateStatusHandler)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Get("/dashboard/stats", dashboardHandler.StatsHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "the requested resource could not be found"}` + "\n"))
	})
}
