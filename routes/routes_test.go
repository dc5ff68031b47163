package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/handlers"
)

func newTestRouter() http.Handler {
	router := chi.NewRouter()
	SetupRoutes(router, Options{JWTSecret: "secret", AllowedOrigins: []string{"https://arenarium.gg"}}, Handlers{
		Auth:            handlers.NewAuthHandler(nil, "secret"),
		Team:            handlers.NewTeamHandler(nil, nil),
		Player:          handlers.NewPlayerHandler(nil, nil),
		Catalog:         handlers.NewCatalogHandler(nil, nil),
		Tournament:      handlers.NewTournamentHandler(nil, nil),
		TournamentTeams: handlers.NewTournamentTeamHandler(nil),
		Stage:           handlers.NewStageHandler(nil, nil),
		Match:           handlers.NewMatchHandler(nil, nil),
		Statistics:      handlers.NewStatisticsHandler(nil),
		Image:           handlers.NewImageHandler(nil),
		WebSocket:       handlers.NewWebSocketHandler(brackets.NewHub(nil), nil),
	})
	return router
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	for _, rt := range []struct{ method, path string }{
		{http.MethodPost, "/teams"},
		{http.MethodDelete, "/players/1"},
		{http.MethodPut, "/heroes/2"},
		{http.MethodPost, "/items"},
		{http.MethodPost, "/matches/3/games"},
		{http.MethodPut, "/tournaments/4/stages"},
		{http.MethodGet, "/tournaments/4/stages"},
		{http.MethodPost, "/tournaments/4/stages/preview"},
		{http.MethodPost, "/tournaments/4/teams/7/move-up"},
		{http.MethodPost, "/tournaments/4/images/banner"},
		{http.MethodPost, "/statistics"},
		{http.MethodPost, "/api/upload-image"},
		{http.MethodDelete, "/api/images/team-logos/onic.png"},
		{http.MethodGet, "/auth/me"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}
}

func TestHealthAndUnknownRoom(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/lobby", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/teams", nil)
	req.Header.Set("Origin", "https://arenarium.gg")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://arenarium.gg", rec.Header().Get("Access-Control-Allow-Origin"))
}
