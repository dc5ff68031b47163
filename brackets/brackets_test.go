package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func seededTeams(n int) []models.TournamentTeam {
	out := make([]models.TournamentTeam, n)
	for i := range out {
		id := (i + 1) * 10
		out[i] = models.TournamentTeam{
			ID:           i + 1,
			TournamentID: 1,
			TeamID:       id,
			Seed:         intPtr(i + 1),
			Team:         &models.Team{ID: id, TeamName: "Team " + string(rune('A'+i)), TeamCode: string(rune('A' + i))},
		}
	}
	return out
}

func completed(round, order, team1, team2, s1, s2 int) models.Match {
	return models.Match{
		ID:          round*100 + order,
		RoundNumber: round,
		MatchNumber: order,
		Team1ID:     intPtr(team1),
		Team2ID:     intPtr(team2),
		Team1Score:  s1,
		Team2Score:  s2,
		Status:      models.MatchCompleted,
	}
}

func elimStage(t formats.FormatType) *models.TournamentStage {
	return &models.TournamentStage{ID: 7, StageName: "Playoffs", FormatType: t}
}

func TestEliminationRoundNames(t *testing.T) {
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:  elimStage(formats.SingleElimination),
		Config: &formats.EliminationConfig{TeamsCount: 8, RoundNames: []string{"", "Semis"}},
		Teams:  seededTeams(8),
	})
	require.NoError(t, err)
	require.Len(t, view.Rounds, 3)
	assert.Equal(t, "Quarter Final", view.Rounds[0].Name)
	assert.Equal(t, "Semis", view.Rounds[1].Name)
	assert.Equal(t, "Grand Final", view.Rounds[2].Name)
	assert.Len(t, view.Rounds[0].Matches, 4)
	assert.Nil(t, view.LowerBracketSupported)
}

func TestEliminationPairsBySeedAndAdvancesWinners(t *testing.T) {
	teams := seededTeams(4)
	matches := []models.Match{
		completed(1, 1, 10, 20, 2, 1),
		completed(1, 2, 30, 40, 0, 2),
	}
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:   elimStage(formats.SingleElimination),
		Config:  &formats.EliminationConfig{},
		Teams:   teams,
		Matches: matches,
	})
	require.NoError(t, err)
	require.Len(t, view.Rounds, 2)

	first := view.Rounds[0].Matches[0]
	assert.Equal(t, 10, *first.Team1.TeamID)
	assert.Equal(t, 20, *first.Team2.TeamID)
	assert.True(t, first.Team1.IsWinner)
	assert.Equal(t, "R2M1", *first.NextMatchUID)

	final := view.Rounds[1].Matches[0]
	require.NotNil(t, final.Team1.TeamID)
	require.NotNil(t, final.Team2.TeamID)
	assert.Equal(t, 10, *final.Team1.TeamID, "odd match winner goes to slot 1")
	assert.Equal(t, 40, *final.Team2.TeamID, "even match winner goes to slot 2")
	assert.Nil(t, final.WinnerID)
}

func TestEliminationWinnerIDOverridesScore(t *testing.T) {
	m := completed(1, 1, 10, 20, 0, 0)
	m.WinnerID = intPtr(20)
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:   elimStage(formats.SingleElimination),
		Config:  &formats.EliminationConfig{TeamsCount: 2},
		Teams:   seededTeams(2),
		Matches: []models.Match{m},
	})
	require.NoError(t, err)
	require.Len(t, view.Rounds, 1)
	assert.Equal(t, 20, *view.Rounds[0].Matches[0].WinnerID)
}

func TestEliminationDrawAdvancesNobody(t *testing.T) {
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:   elimStage(formats.SingleElimination),
		Config:  &formats.EliminationConfig{TeamsCount: 4},
		Teams:   seededTeams(4),
		Matches: []models.Match{completed(1, 1, 10, 20, 1, 1)},
	})
	require.NoError(t, err)
	assert.Nil(t, view.Rounds[0].Matches[0].WinnerID)
	assert.Nil(t, view.Rounds[1].Matches[0].Team1.TeamID)
	assert.False(t, view.Rounds[1].Matches[0].Team1.IsBye)
}

func TestEliminationIgnoresWinnerOutsideSlots(t *testing.T) {
	m := completed(1, 1, 10, 20, 0, 0)
	m.WinnerID = intPtr(999)
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:   elimStage(formats.SingleElimination),
		Config:  &formats.EliminationConfig{TeamsCount: 4},
		Teams:   seededTeams(4),
		Matches: []models.Match{m},
	})
	require.NoError(t, err)

	first := view.Rounds[0].Matches[0]
	assert.Nil(t, first.WinnerID)
	assert.False(t, first.Team1.IsWinner)
	assert.False(t, first.Team2.IsWinner)
	assert.Nil(t, view.Rounds[1].Matches[0].Team1.TeamID)
}

func TestEliminationByesAdvance(t *testing.T) {
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:  elimStage(formats.DoubleElimination),
		Config: &formats.EliminationConfig{},
		Teams:  seededTeams(3),
	})
	require.NoError(t, err)
	require.Len(t, view.Rounds, 2)
	require.NotNil(t, view.LowerBracketSupported)
	assert.False(t, *view.LowerBracketSupported)

	bye := view.Rounds[0].Matches[1]
	assert.True(t, bye.IsBye)
	assert.True(t, bye.Team2.IsBye)
	assert.Equal(t, 30, *bye.WinnerID)

	final := view.Rounds[1].Matches[0]
	assert.Nil(t, final.Team1.TeamID)
	require.NotNil(t, final.Team2.TeamID)
	assert.Equal(t, 30, *final.Team2.TeamID)
}

func TestEliminationScoresFollowSlots(t *testing.T) {
	// Строка матча записана с командами в обратном порядке.
	view, err := NewEliminationRenderer().Render(RenderParams{
		Stage:   elimStage(formats.SingleElimination),
		Config:  &formats.EliminationConfig{TeamsCount: 2},
		Teams:   seededTeams(2),
		Matches: []models.Match{completed(1, 1, 20, 10, 3, 1)},
	})
	require.NoError(t, err)
	m := view.Rounds[0].Matches[0]
	assert.Equal(t, 1, *m.Team1.Score)
	assert.Equal(t, 3, *m.Team2.Score)
	assert.True(t, m.Team2.IsWinner)
}

func TestPointsFor(t *testing.T) {
	w, d, l := PointsFor("3_1_0")
	assert.Equal(t, []int{3, 1, 0}, []int{w, d, l})
	w, d, l = PointsFor("2_1_0")
	assert.Equal(t, []int{2, 1, 0}, []int{w, d, l})
	w, d, l = PointsFor("")
	assert.Equal(t, []int{1, 0, 0}, []int{w, d, l})
}

func TestStandingsSortAndPoints(t *testing.T) {
	teams := seededTeams(3)
	matches := []models.Match{
		completed(1, 1, 10, 20, 0, 2),
		completed(1, 2, 20, 30, 1, 1),
		completed(1, 3, 10, 30, 2, 0),
		{ID: 99, Team1ID: intPtr(10), Team2ID: intPtr(30), Status: models.MatchScheduled},
	}
	view, err := NewStandingsRenderer().Render(RenderParams{
		Stage:   &models.TournamentStage{ID: 3, FormatType: formats.RoundRobin},
		Config:  &formats.RoundRobinConfig{PointsSystem: "3_1_0"},
		Teams:   teams,
		Matches: matches,
	})
	require.NoError(t, err)
	assert.Equal(t, KindStandings, view.Kind)
	require.NotNil(t, view.TiebreakersApplied)
	assert.False(t, *view.TiebreakersApplied)

	require.Len(t, view.Standings, 3)
	assert.Equal(t, 20, view.Standings[0].TeamID)
	assert.Equal(t, 4, view.Standings[0].Points)
	// 10 и 30 по очкам: 3 и 1.
	assert.Equal(t, 10, view.Standings[1].TeamID)
	assert.Equal(t, 3, view.Standings[1].Points)
	assert.Equal(t, 2, view.Standings[1].Played)
	assert.Equal(t, 30, view.Standings[2].TeamID)
	assert.Equal(t, 1, view.Standings[2].Draws)
	assert.Equal(t, 3, view.Standings[2].Position)
}

func TestStandingsTieFallsBackToSeed(t *testing.T) {
	teams := seededTeams(2)
	teams[0].Seed, teams[1].Seed = intPtr(2), intPtr(1)
	view, err := NewStandingsRenderer().Render(RenderParams{
		Stage:  &models.TournamentStage{FormatType: formats.Leaderboard},
		Config: &formats.LeaderboardConfig{},
		Teams:  teams,
	})
	require.NoError(t, err)
	assert.Equal(t, "win_loss", view.PointsSystem)
	assert.Equal(t, 20, view.Standings[0].TeamID)
}

func TestMatchupMatrixSymmetry(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}, {ID: 3}}
	matrix := BuildMatchupMatrix(teams, []models.Match{completed(1, 1, 1, 2, 2, 1)})

	assert.Equal(t, "-", matrix.Cells[1][1])
	assert.Equal(t, "2-1", matrix.Cells[1][2])
	assert.Equal(t, "1-2", matrix.Cells[2][1])
	assert.Equal(t, "N/A", matrix.Cells[1][3])
	assert.Equal(t, "N/A", matrix.Cells[3][2])
}

func TestMatchupMatrixKeepsIndependentRecord(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}}
	matrix := BuildMatchupMatrix(teams, []models.Match{
		completed(1, 1, 1, 2, 2, 1),
		completed(2, 1, 2, 1, 2, 0),
	})
	assert.Equal(t, "2-1", matrix.Cells[1][2])
	assert.Equal(t, "2-0", matrix.Cells[2][1])
}

func TestRendererFor(t *testing.T) {
	r, err := RendererFor(formats.DoubleElimination)
	require.NoError(t, err)
	assert.Equal(t, "Elimination", r.GetName())

	r, err = RendererFor(formats.SwissSystem)
	require.NoError(t, err)
	assert.Equal(t, "Standings", r.GetName())

	_, err = RendererFor(formats.MultiStage)
	assert.ErrorIs(t, err, ErrNoRenderer)
}

func TestValidRoom(t *testing.T) {
	assert.True(t, ValidRoom("teams"))
	assert.True(t, ValidRoom("tournament_12"))
	assert.False(t, ValidRoom("tournament_"))
	assert.False(t, ValidRoom("tournament_01"))
	assert.False(t, ValidRoom("admins"))
}

func TestHubBroadcastToRoom(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	inRoom := &Client{Hub: hub, Send: make(chan []byte, 1), Room: "teams"}
	elsewhere := &Client{Hub: hub, Send: make(chan []byte, 1), Room: "players"}
	require.True(t, hub.Join(inRoom))
	require.True(t, hub.Join(elsewhere))
	require.Eventually(t, func() bool { return hub.ClientsInRoom("teams") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("teams", EventEntityUpdated, map[string]int{"id": 5})

	select {
	case raw := <-inRoom.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventEntityUpdated, msg.Type)
		assert.Equal(t, "teams", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
	assert.Empty(t, elsewhere.Send)
}
