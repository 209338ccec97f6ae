package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/opencourt/tennis-tour/handlers"
	"github.com/opencourt/tennis-tour/middleware"
)

// SetupRoutes mounts the public read surface, the authenticated admin
// surface and the websocket endpoint on the router.
func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	calendarHandler *handlers.CalendarHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
	auth *middleware.Authenticator,
	rateLimiter *middleware.RateLimiter,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(rateLimiter.Limit)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.LoginHandler)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayersHandler)
		r.Get("/{playerID}", playerHandler.GetPlayerHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", playerHandler.CreatePlayerHandler)
			r.Put("/{playerID}", playerHandler.UpdatePlayerHandler)
			r.Delete("/{playerID}", playerHandler.DeletePlayerHandler)
			r.Post("/{playerID}/picture", playerHandler.UploadPlayerPictureHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournamentsHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", tournamentHandler.CreateTournamentHandler)
			r.Put("/{tournamentID}", tournamentHandler.UpdateTournamentHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteTournamentHandler)
		})
	})

	router.Route("/calendar", func(r chi.Router) {
		r.Get("/", calendarHandler.ListCalendarHandler)
		r.Get("/{calendarID}", calendarHandler.GetCalendarHandler)
		r.Get("/{calendarID}/draw", calendarHandler.GetDrawHandler)
		r.Get("/{calendarID}/draw/match", calendarHandler.GetMatchByPositionHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", calendarHandler.CreateCalendarHandler)
			r.Put("/{calendarID}", calendarHandler.UpdateCalendarHandler)
			r.Post("/{calendarID}/draw", calendarHandler.DrawCalendarHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatchesHandler)
		r.Get("/{matchID}", matchHandler.GetMatchHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", matchHandler.CreateMatchHandler)
			r.Put("/{matchID}", matchHandler.UpdateMatchHandler)
			r.Post("/{matchID}/points", matchHandler.ScorePointHandler)
			r.Post("/{matchID}/suspend", matchHandler.SuspendMatchHandler)
			r.Post("/{matchID}/resume", matchHandler.ResumeMatchHandler)
		})
	})

	router.Get("/ws/calendar/{calendarID}", webSocketHandler.ServeWs)
}
