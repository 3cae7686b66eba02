package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/handlers"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/middleware"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// SetupRoutes wires the HTTP surface. Reads are public; anything that
// mutates a division (roster, generation, scheduling, results) requires an
// authenticated organizer or admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	divisionHandler *handlers.DivisionHandler,
	scheduleHandler *handlers.ScheduleHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/divisions", func(r chi.Router) {
		r.Get("/", divisionHandler.List)
		r.Get("/{divisionID}", divisionHandler.Get)
		r.Get("/{divisionID}/participants", divisionHandler.ListParticipants)
		r.Get("/{divisionID}/matches", divisionHandler.ListMatches)
		r.Get("/{divisionID}/standings", divisionHandler.GetStandings)
		r.Get("/{divisionID}/capacity", scheduleHandler.Capacity)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(string(models.RoleOrganizer), string(models.RoleAdmin)))

			r.Post("/", divisionHandler.Create)
			r.Post("/{divisionID}/participants", divisionHandler.AddParticipants)
			r.Post("/{divisionID}/generate", divisionHandler.Generate)
			r.Post("/{divisionID}/knockout", divisionHandler.GenerateKnockout)
			r.Post("/{divisionID}/schedule", scheduleHandler.Schedule)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(string(models.RoleOrganizer), string(models.RoleAdmin)))

		r.Post("/matches/{matchID}/result", matchHandler.ReportResult)
	})

	router.Get("/ws/divisions/{divisionID}", webSocketHandler.ServeWs)
}
