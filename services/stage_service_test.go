package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
)

func newStageFixture(stages ...models.TournamentStage) (*stageService, *fakeTournamentRepo, *fakeStageRepo, *recordingPublisher, *fakeTx) {
	tournaments := newFakeTournamentRepo(models.Tournament{ID: 1, Name: "MPL ID S14", Status: models.StatusUpcoming})
	stageRepo := newFakeStageRepo(stages...)
	pub := &recordingPublisher{}
	tx := &fakeTx{}
	svc := NewStageService(tx, tournaments, stageRepo, Deps{Events: pub}).(*stageService)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, tournaments, stageRepo, pub, tx
}

func TestSaveStagesWritesSummary(t *testing.T) {
	svc, tournaments, stageRepo, pub, tx := newStageFixture()

	playoffs := formats.NewStageDraft(7)
	playoffs.Name = "Playoffs"
	groups := formats.StageDraft{
		Name:   "Groups",
		Order:  2,
		Type:   formats.RoundRobin,
		Config: &formats.RoundRobinConfig{TeamsCount: 16, PointsSystem: "3_1_0"},
	}

	res, err := svc.SaveStages(context.Background(), 1, SaveStagesInput{Stages: []formats.StageDraft{playoffs, groups}})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)

	require.Len(t, res.Stages, 2)
	assert.Equal(t, "Groups", res.Stages[0].StageName)
	assert.Equal(t, 1, res.Stages[0].StageOrder)
	assert.Equal(t, "Playoffs", res.Stages[1].StageName)
	assert.Equal(t, 2, res.Stages[1].StageOrder)

	assert.Equal(t, 2, res.Summary.TotalStages)
	assert.Equal(t, 16, res.Summary.TeamsCount, "teams_count comes from the first stage")

	var stored models.FormatSummary
	require.NoError(t, json.Unmarshal(tournaments.summaries[1], &stored))
	assert.Equal(t, res.Summary.TotalStages, stored.TotalStages)
	assert.True(t, tournaments.multi[1])

	saved, _ := stageRepo.ListByTournament(context.Background(), 1)
	assert.Len(t, saved, 2)
	assert.Equal(t, []string{"tournament_1"}, pub.rooms(brackets.EventStagesUpdated))
}

func TestSaveStagesSingleStageWithoutTeamsCount(t *testing.T) {
	svc, tournaments, _, _, _ := newStageFixture()

	res, err := svc.SaveStages(context.Background(), 1, SaveStagesInput{Stages: []formats.StageDraft{{
		Name:   "Ladder",
		Order:  1,
		Type:   formats.Leaderboard,
		Config: &formats.LeaderboardConfig{},
	}}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Summary.TeamsCount)
	assert.False(t, tournaments.multi[1])
}

func TestSaveStagesFillsRoundNames(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()

	res, err := svc.SaveStages(context.Background(), 1, SaveStagesInput{Stages: []formats.StageDraft{{
		Name:   "Playoffs",
		Order:  1,
		Type:   formats.SingleElimination,
		Config: &formats.EliminationConfig{TeamsCount: 8},
	}}})
	require.NoError(t, err)

	cfg, err := formats.Decode(formats.SingleElimination, res.Stages[0].FormatConfig, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quarter Final", "Semi Final", "Grand Final"}, formats.RoundNamesOf(cfg))
}

func TestSaveStagesValidation(t *testing.T) {
	svc, _, _, _, tx := newStageFixture()

	_, err := svc.SaveStages(context.Background(), 1, SaveStagesInput{})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.SaveStages(context.Background(), 1, SaveStagesInput{Stages: []formats.StageDraft{{Name: " ", Type: formats.RoundRobin}}})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.SaveStages(context.Background(), 42, SaveStagesInput{Stages: []formats.StageDraft{formats.NewStageDraft(1)}})
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	assert.Equal(t, 0, tx.calls)
}

func TestPreviewTeamsCountChange(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()

	draft := formats.StageDraft{
		Name:  "Playoffs",
		Order: 1,
		Type:  formats.SingleElimination,
		Config: &formats.EliminationConfig{
			TeamsCount: 8,
			RoundNames: []string{"Quarters", "Semis", "Final"},
		},
	}
	res, err := svc.Preview(PreviewStageInput{Stage: draft, TeamsCount: intPtr(16)})
	require.NoError(t, err)

	names := formats.RoundNamesOf(res.Stage.Config)
	assert.Len(t, names, 4)
	require.Len(t, res.Notices, 1)
	assert.Equal(t, formats.NoticeRoundNamesRegenerated, res.Notices[0].Code)
	assert.NotEmpty(t, res.VisibleFields)
}

func TestPreviewFormatTypeChange(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()

	to := formats.RoundRobin
	res, err := svc.Preview(PreviewStageInput{Stage: formats.NewStageDraft(1), FormatType: &to})
	require.NoError(t, err)
	assert.Equal(t, formats.RoundRobin, res.Stage.Type)
	assert.Equal(t, 8, res.Stage.Config.Teams())
	assert.Empty(t, res.Notices)

	bad := formats.FormatType("Battle Royale")
	_, err = svc.Preview(PreviewStageInput{Stage: formats.NewStageDraft(1), FormatType: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestListStagesDecodesLegacyConfig(t *testing.T) {
	svc, _, _, _, _ := newStageFixture(models.TournamentStage{
		ID:           10,
		TournamentID: 1,
		StageName:    "Playoffs",
		StageOrder:   1,
		FormatType:   formats.SingleElimination,
		FormatConfig: json.RawMessage(`{"teams_count": 4, "legacy_flag": true}`),
	})

	stages, err := svc.ListStages(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.JSONEq(t, `{"teams_count": 4}`, string(stages[0].FormatConfig))
}

func TestLoadPreset(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()

	stages, err := svc.LoadPreset(context.Background(), 1, "mpl_id")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, formats.DoubleElimination, stages[1].Type)

	_, err = svc.LoadPreset(context.Background(), 1, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormatCatalogCoversAllTypes(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()
	catalog := svc.FormatCatalog()
	assert.Len(t, catalog, len(formats.AllTypes()))
	for _, d := range catalog {
		assert.NotEmpty(t, d.Fields, string(d.Type))
	}
}

func TestEditStages(t *testing.T) {
	svc, _, _, _, _ := newStageFixture()

	stages, err := svc.EditStages(EditStagesInput{Action: StageAdd})
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "Stage 1", stages[0].Name)
	assert.Equal(t, formats.SingleElimination, stages[0].Type)

	stages, err = svc.EditStages(EditStagesInput{Stages: stages, Action: StageAdd})
	require.NoError(t, err)
	stages[1].Name = "Playoffs"

	moved, err := svc.EditStages(EditStagesInput{Stages: stages, Action: StageMoveUp, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "Playoffs", moved[0].Name)
	assert.Equal(t, 1, moved[0].Order)
	assert.Equal(t, 2, moved[1].Order)

	// верхний этап выше не двигается
	same, err := svc.EditStages(EditStagesInput{Stages: moved, Action: StageMoveUp, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "Playoffs", same[0].Name)

	removed, err := svc.EditStages(EditStagesInput{Stages: moved, Action: StageRemove, Index: 0})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, 1, removed[0].Order)

	_, err = svc.EditStages(EditStagesInput{Stages: removed, Action: StageRemove, Index: 5})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.EditStages(EditStagesInput{Action: "shuffle"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
