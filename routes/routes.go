package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/arenarium/docs"
	"github.com/Dosada05/arenarium/handlers"
	"github.com/Dosada05/arenarium/middleware"
	"github.com/Dosada05/arenarium/models"
)

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Team            *handlers.TeamHandler
	Player          *handlers.PlayerHandler
	Catalog         *handlers.CatalogHandler
	Tournament      *handlers.TournamentHandler
	TournamentTeams *handlers.TournamentTeamHandler
	Stage           *handlers.StageHandler
	Match           *handlers.MatchHandler
	Statistics      *handlers.StatisticsHandler
	Image           *handlers.ImageHandler
	WebSocket       *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	staff := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEditor))
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Group(func(r chi.Router) {
			staff(r)
			r.Get("/me", h.Auth.Me)
		})
	})

	router.Get("/ws/{room}", h.WebSocket.ServeWs)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Team.ListTeams)
		r.Get("/regions", h.Team.ListRegions)
		r.Get("/{teamID}", h.Team.GetTeam)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Team.CreateTeam)
			r.Put("/{teamID}", h.Team.UpdateTeam)
			r.Delete("/{teamID}", h.Team.DeleteTeam)
			r.Post("/{teamID}/logo", h.Team.UploadTeamLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.ListPlayers)
		r.Get("/filters", h.Player.FilterOptions)
		r.Get("/{playerID}", h.Player.GetPlayer)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Player.CreatePlayer)
			r.Put("/{playerID}", h.Player.UpdatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
			r.Post("/{playerID}/photo", h.Player.UploadPlayerPhoto)
		})
	})

	router.Route("/heroes", func(r chi.Router) {
		r.Get("/", h.Catalog.ListHeroes)
		r.Get("/{heroID}", h.Catalog.GetHero)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Catalog.CreateHero)
			r.Put("/{heroID}", h.Catalog.UpdateHero)
			r.Delete("/{heroID}", h.Catalog.DeleteHero)
			r.Post("/{heroID}/image", h.Catalog.UploadHeroImage)
		})
	})

	router.Route("/items", func(r chi.Router) {
		r.Get("/", h.Catalog.ListItems)
		r.Get("/{itemID}", h.Catalog.GetItem)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Catalog.CreateItem)
			r.Put("/{itemID}", h.Catalog.UpdateItem)
			r.Delete("/{itemID}", h.Catalog.DeleteItem)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", h.Match.ListMatches)
		r.Get("/{matchID}", h.Match.GetMatch)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Match.CreateMatch)
			r.Put("/{matchID}", h.Match.UpdateMatch)
			r.Delete("/{matchID}", h.Match.DeleteMatch)
			r.Post("/{matchID}/screenshots", h.Match.UploadScreenshot)

			r.Post("/{matchID}/games", h.Match.CreateGame)
			r.Put("/{matchID}/games/{gameID}", h.Match.UpdateGame)
			r.Delete("/{matchID}/games/{gameID}", h.Match.DeleteGame)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListTournaments)
		r.Get("/{tournamentID}", h.Tournament.GetTournament)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Post("/", h.Tournament.CreateTournament)
			r.Put("/{tournamentID}", h.Tournament.UpdateTournament)
			r.Delete("/{tournamentID}", h.Tournament.DeleteTournament)
			r.Post("/{tournamentID}/images/{kind}", h.Tournament.UploadTournamentImage)
		})

		r.Route("/{tournamentID}/teams", func(r chi.Router) {
			staff(r)
			r.Get("/", h.TournamentTeams.ListTeams)
			r.Post("/", h.TournamentTeams.AddTeam)
			r.Put("/", h.TournamentTeams.SaveSeeding)
			r.Put("/{entryID}", h.TournamentTeams.UpdateTeam)
			r.Delete("/{entryID}", h.TournamentTeams.RemoveTeam)
			r.Post("/{entryID}/move-up", h.TournamentTeams.MoveUp)
			r.Post("/{entryID}/move-down", h.TournamentTeams.MoveDown)
		})

		r.Route("/{tournamentID}/stages", func(r chi.Router) {
			r.Get("/{stageID}/bracket", h.Stage.GetBracket)

			r.Group(func(r chi.Router) {
				staff(r)
				r.Get("/", h.Stage.ListStages)
				r.Put("/", h.Stage.SaveStages)
				r.Post("/preview", h.Stage.Preview)
				r.Post("/edit", h.Stage.EditStages)
				r.Post("/presets/{preset}", h.Stage.LoadPreset)
			})
		})
	})

	router.Route("/stage-formats", func(r chi.Router) {
		r.Get("/", h.Stage.FormatCatalog)
		r.Get("/presets", h.Stage.Presets)
		r.Post("/visible-fields", h.Stage.VisibleFields)
	})

	router.Route("/statistics", func(r chi.Router) {
		r.Get("/", h.Statistics.Report)

		r.Group(func(r chi.Router) {
			staff(r)
			r.Get("/rows", h.Statistics.ListStatistics)
			r.Post("/", h.Statistics.CreateStatistic)
			r.Put("/{statID}", h.Statistics.UpdateStatistic)
			r.Delete("/{statID}", h.Statistics.DeleteStatistic)
		})
	})

	router.Route("/api", func(r chi.Router) {
		staff(r)
		r.Post("/upload-image", h.Image.UploadImage)
		r.Delete("/images/{bucket}/*", h.Image.DeleteImage)
	})
}
