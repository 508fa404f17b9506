package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/bp-tabulator/handlers"
	"github.com/Dosada05/bp-tabulator/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router chi.Router,
	logger *slog.Logger,
	allowedOrigins []string,
	healthHandler *handlers.HealthHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	roundHandler *handlers.RoundHandler,
	standingsHandler *handlers.StandingsHandler,
	adjudicatorHandler *handlers.AdjudicatorHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.Healthz)

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/readiness", tournamentHandler.ReadinessHandler)
			r.Post("/finalize", tournamentHandler.FinalizeHandler)

			r.Post("/teams", teamHandler.RegisterTeam)
			r.Get("/teams", teamHandler.ListTeams)

			r.Post("/rounds", roundHandler.GenerateRound)
			r.Get("/debates", roundHandler.ListDebates)

			r.Post("/adjudicators", adjudicatorHandler.RegisterAdjudicator)
			r.Get("/adjudicators", adjudicatorHandler.ListAdjudicators)
			r.Get("/rounds/{round}/allocations", adjudicatorHandler.GetAllocations)
			r.Post("/rounds/{round}/allocations", adjudicatorHandler.AllocateRound)

			r.Get("/standings", standingsHandler.GetStandings)
			r.Get("/break", standingsHandler.GetBreak)
			r.Get("/roles", standingsHandler.GetRoleBalance)
		})
	})

	router.Post("/debates/{debateID}/results", roundHandler.SubmitResults)
}
