package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
)

func newMatchFixture(matches ...models.Match) (MatchService, *fakeMatchRepo, *fakeGameRepo, *recordingPublisher) {
	matchRepo := newFakeMatchRepo(matches...)
	gameRepo := newFakeGameRepo()
	stageRepo := newFakeStageRepo(
		models.TournamentStage{ID: 7, TournamentID: 1, StageName: "Playoffs", StageOrder: 1, FormatType: formats.SingleElimination},
	)
	pub := &recordingPublisher{}
	return NewMatchService(matchRepo, gameRepo, stageRepo, Deps{Events: pub}), matchRepo, gameRepo, pub
}

func TestCreateMatchDefaults(t *testing.T) {
	svc, _, _, pub := newMatchFixture()
	date := time.Date(2025, 4, 12, 15, 0, 0, 0, time.UTC)

	m, err := svc.CreateMatch(context.Background(), MatchInput{
		TournamentID: intPtr(1),
		StageID:      intPtr(7),
		Team1ID:      intPtr(10),
		Team2ID:      intPtr(11),
		MatchDate:    &date,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BestOf3, m.MatchType)
	assert.Equal(t, models.MatchScheduled, m.Status)
	assert.Equal(t, 1, m.RoundNumber)
	assert.Equal(t, 1, m.MatchNumber)
	assert.ElementsMatch(t, []string{brackets.RoomMatches, "tournament_1"}, pub.rooms(brackets.EventEntityCreated))
}

func TestCreateMatchValidation(t *testing.T) {
	svc, _, _, _ := newMatchFixture()
	date := time.Date(2025, 4, 12, 15, 0, 0, 0, time.UTC)
	bo9 := models.MatchType("bo9")

	cases := map[string]MatchInput{
		"no tournament":     {MatchDate: &date},
		"no date":           {TournamentID: intPtr(1)},
		"same teams":        {TournamentID: intPtr(1), MatchDate: &date, Team1ID: intPtr(10), Team2ID: intPtr(10)},
		"foreign winner":    {TournamentID: intPtr(1), MatchDate: &date, Team1ID: intPtr(10), Team2ID: intPtr(11), WinnerID: intPtr(12)},
		"negative score":    {TournamentID: intPtr(1), MatchDate: &date, Team1Score: intPtr(-1)},
		"bad match type":    {TournamentID: intPtr(1), MatchDate: &date, MatchType: &bo9},
		"zero round":        {TournamentID: intPtr(1), MatchDate: &date, RoundNumber: intPtr(0)},
		"unknown stage":     {TournamentID: intPtr(1), MatchDate: &date, StageID: intPtr(99)},
		"stage of other tn": {TournamentID: intPtr(2), MatchDate: &date, StageID: intPtr(7)},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateMatch(context.Background(), input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestUpdateMatchCompletesWithWinner(t *testing.T) {
	svc, repo, _, pub := newMatchFixture(models.Match{
		ID: 1, TournamentID: 1, Team1ID: intPtr(10), Team2ID: intPtr(11),
		MatchDate: time.Now(), MatchType: models.BestOf5, Status: models.MatchLive, RoundNumber: 1, MatchNumber: 1,
	})
	completed := models.MatchCompleted

	m, err := svc.UpdateMatch(context.Background(), 1, MatchInput{
		Status: &completed, WinnerID: intPtr(11), Team1Score: intPtr(1), Team2Score: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MatchCompleted, m.Status)

	stored, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, 3, stored.Team2Score)
	assert.Contains(t, pub.rooms(brackets.EventEntityUpdated), "tournament_1")

	_, err = svc.UpdateMatch(context.Background(), 404, MatchInput{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGames(t *testing.T) {
	date := time.Date(2025, 4, 12, 15, 0, 0, 0, time.UTC)
	svc, _, games, _ := newMatchFixture(models.Match{
		ID: 1, TournamentID: 1, Team1ID: intPtr(10), Team2ID: intPtr(11),
		MatchDate: date, MatchType: models.BestOf3, Status: models.MatchLive, RoundNumber: 1, MatchNumber: 1,
	})

	g, err := svc.CreateGame(context.Background(), 1, GameInput{GameNumber: intPtr(1), WinnerID: intPtr(10), Duration: intPtr(900)})
	require.NoError(t, err)
	assert.Equal(t, date, g.GameDate)

	_, err = svc.CreateGame(context.Background(), 1, GameInput{GameNumber: intPtr(1)})
	assert.ErrorIs(t, err, ErrGameNumberConflict)

	_, err = svc.CreateGame(context.Background(), 1, GameInput{GameNumber: intPtr(2), WinnerID: intPtr(99)})
	assert.ErrorIs(t, err, ErrValidationFailed)

	match, err := svc.GetMatch(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, match.Games, 1)

	assert.ErrorIs(t, svc.DeleteGame(context.Background(), 2, g.ID), ErrMatchNotFound)
	require.NoError(t, svc.DeleteGame(context.Background(), 1, g.ID))
	assert.Empty(t, games.games)
}

func TestListMatchesRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newMatchFixture()
	status := models.MatchStatus("postponed")
	_, err := svc.ListMatches(context.Background(), listMatchesByStatus(&status))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
