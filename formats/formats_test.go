package formats

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundCount(t *testing.T) {
	testCases := []struct {
		teams int
		want  int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {16, 4}, {64, 6},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, RoundCount(tc.teams), "teams=%d", tc.teams)
	}
}

func TestDefaultRoundNames(t *testing.T) {
	assert.Equal(t, []string{"Quarter Final", "Semi Final", "Grand Final"}, DefaultRoundNames(8))
	assert.Equal(t, []string{"Round of 16", "Quarter Final", "Semi Final", "Grand Final"}, DefaultRoundNames(16))
	assert.Equal(t, []string{"Round 1", "Round of 16", "Quarter Final", "Semi Final", "Grand Final"}, DefaultRoundNames(32))
	assert.Equal(t, []string{"Grand Final"}, DefaultRoundNames(2))
	assert.Empty(t, DefaultRoundNames(1))
}

func TestRoundNameFallsBackOnBlank(t *testing.T) {
	custom := []string{"Opening", "  ", "Final Showdown"}
	assert.Equal(t, "Opening", RoundName(custom, 1, 3))
	assert.Equal(t, "Semi Final", RoundName(custom, 2, 3))
	assert.Equal(t, "Final Showdown", RoundName(custom, 3, 3))
	assert.Equal(t, "Grand Final", RoundName(nil, 3, 3))
}

func TestResizeRoundNames(t *testing.T) {
	names := []string{"Opening", "Semi Final", "Grand Final"}

	t.Run("regenerate discards custom names", func(t *testing.T) {
		resized, discarded := ResizeRoundNames(names, 16, false)
		assert.Equal(t, DefaultRoundNames(16), resized)
		assert.Equal(t, []string{"Opening"}, discarded)
	})

	t.Run("preserve keeps distance from final", func(t *testing.T) {
		resized, discarded := ResizeRoundNames(names, 16, true)
		assert.Equal(t, []string{"Round of 16", "Opening", "Semi Final", "Grand Final"}, resized)
		assert.Empty(t, discarded)
	})

	t.Run("preserve drops names that no longer fit", func(t *testing.T) {
		resized, discarded := ResizeRoundNames(names, 2, true)
		assert.Equal(t, []string{"Grand Final"}, resized)
		assert.Equal(t, []string{"Opening"}, discarded)
	})
}

func TestVisibleFieldsHonoursConditions(t *testing.T) {
	hidden := VisibleFields(SingleElimination, map[string]any{"bye_rules": "none"})
	assert.Len(t, hidden, 4)

	shown := VisibleFields(SingleElimination, map[string]any{"bye_rules": "top_seeds"})
	require.Len(t, shown, 5)
	assert.Equal(t, "top_seeds_bye_rounds", shown[4].Key)

	multi := VisibleFields(MultiStage, map[string]any{"qualification_rules": "percentage"})
	keys := make([]string, 0, len(multi))
	for _, f := range multi {
		keys = append(keys, f.Key)
	}
	assert.Contains(t, keys, "qualification_percentage")
	assert.NotContains(t, keys, "qualification_count")
}

func TestFieldsUnknownTypeFallsBack(t *testing.T) {
	fields := Fields(FormatType("Pickup Games"))
	require.Len(t, fields, 1)
	assert.Equal(t, "teams_count", fields[0].Key)
}

func TestCheckValues(t *testing.T) {
	err := CheckValues(SingleElimination, map[string]any{"teams_count": float64(65)})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "teams_count")

	err = CheckValues(RoundRobin, map[string]any{"teams_count": 8.5})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "must be a whole number", verrs["teams_count"])

	err = CheckValues(RoundRobin, map[string]any{"points_system": "5_0_0"})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "points_system")

	assert.NoError(t, CheckValues(SwissSystem, map[string]any{"teams_count": 16, "rounds": 5}))
}

func TestDecode(t *testing.T) {
	t.Run("strict rejects unknown keys", func(t *testing.T) {
		_, err := Decode(SingleElimination, json.RawMessage(`{"teams_count":8,"group_size":4}`), true)
		assert.Error(t, err)
	})

	t.Run("lenient drops unknown keys", func(t *testing.T) {
		cfg, err := Decode(SingleElimination, json.RawMessage(`{"teams_count":8,"group_size":4}`), false)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Teams())
	})

	t.Run("hidden fields are not range checked", func(t *testing.T) {
		_, err := Decode(SingleElimination, json.RawMessage(`{"bye_rules":"none","top_seeds_bye_rounds":5}`), true)
		assert.NoError(t, err)
	})

	t.Run("explicit zero is range checked", func(t *testing.T) {
		_, err := Decode(SingleElimination, json.RawMessage(`{"teams_count":0}`), true)
		var problems ValidationErrors
		require.ErrorAs(t, err, &problems)
		assert.Contains(t, problems, "teams_count")

		_, err = Decode(GroupStagePlayoffs, json.RawMessage(`{"teams_count":16,"group_size":0}`), true)
		require.ErrorAs(t, err, &problems)
		assert.Contains(t, problems, "group_size")
	})

	t.Run("empty config decodes to zero variant", func(t *testing.T) {
		cfg, err := Decode(Leaderboard, nil, true)
		require.NoError(t, err)
		assert.IsType(t, &LeaderboardConfig{}, cfg)
		assert.Equal(t, DefaultTeamsCount, TeamsOrDefault(cfg))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Decode(FormatType("Ladder"), nil, false)
		assert.ErrorIs(t, err, ErrUnknownFormatType)
	})
}

func TestStageDraftJSON(t *testing.T) {
	var d StageDraft
	err := json.Unmarshal([]byte(`{"stage_name":"Playoffs","stage_order":2,"format_type":"Single Elimination","format_config":{"teams_count":4,"round_names":["Semis","Final"]}}`), &d)
	require.NoError(t, err)
	assert.Equal(t, "Playoffs", d.Name)
	assert.Equal(t, 2, d.Order)
	cfg, ok := d.Config.(*EliminationConfig)
	require.True(t, ok)
	assert.Equal(t, 4, cfg.TeamsCount)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"stage_name":"Playoffs","stage_order":2,"format_type":"Single Elimination","format_config":{"teams_count":4,"round_names":["Semis","Final"]}}`, string(out))
}

func TestChangeTeamsCountRegeneratesRoundNames(t *testing.T) {
	d := NewStageDraft(1)
	d.Config.(*EliminationConfig).RoundNames[0] = "Opening Round"

	d, notices, err := ChangeTeamsCount(d, 16, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultRoundNames(16), RoundNamesOf(d.Config))
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeRoundNamesRegenerated, notices[0].Code)
	assert.Equal(t, []string{"Opening Round"}, notices[0].Discarded)
}

func TestChangeTeamsCountWithoutCustomNamesHasNoNotice(t *testing.T) {
	d, notices, err := ChangeTeamsCount(NewStageDraft(1), 4, false)
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, []string{"Semi Final", "Grand Final"}, RoundNamesOf(d.Config))
}

func TestChangeTeamsCountBounds(t *testing.T) {
	_, _, err := ChangeTeamsCount(NewStageDraft(1), 1, false)
	assert.Error(t, err)

	_, _, err = ChangeTeamsCount(NewStageDraft(1), 65, false)
	assert.Error(t, err)

	d, _, err := ChangeTeamsCount(NewStageDraft(1), 2, false)
	require.NoError(t, err)
	assert.Len(t, RoundNamesOf(d.Config), 1)

	// у Complex счётчик команд называется total_teams
	complexDraft := StageDraft{Name: "Main", Order: 1, Type: Complex, Config: &ComplexConfig{}}
	_, _, err = ChangeTeamsCount(complexDraft, 2, false)
	assert.Error(t, err)
}

func TestChangeFormatType(t *testing.T) {
	d := NewStageDraft(1)

	rr, notices, err := ChangeFormatType(d, RoundRobin, false)
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, RoundRobin, rr.Type)
	assert.IsType(t, &RoundRobinConfig{}, rr.Config)
	assert.Equal(t, 8, rr.Config.Teams())

	back, _, err := ChangeFormatType(rr, DoubleElimination, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultRoundNames(8), RoundNamesOf(back.Config))

	_, _, err = ChangeFormatType(d, FormatType("Ladder"), false)
	assert.ErrorIs(t, err, ErrUnknownFormatType)
}

func TestStageListEditing(t *testing.T) {
	stages := []StageDraft{NewStageDraft(1), NewStageDraft(2), NewStageDraft(3)}
	stages[0].Name, stages[1].Name, stages[2].Name = "A", "B", "C"

	stages = MoveStage(stages, 2, true)
	assert.Equal(t, "C", stages[1].Name)
	assert.Equal(t, 2, stages[1].Order)

	stages = MoveStage(stages, 0, true)
	assert.Equal(t, "A", stages[0].Name)

	stages = RemoveStage(stages, 0)
	require.Len(t, stages, 2)
	assert.Equal(t, "C", stages[0].Name)
	assert.Equal(t, 1, stages[0].Order)
	assert.Equal(t, 2, stages[1].Order)
}

func TestPresets(t *testing.T) {
	mpl, err := LookupPreset("mpl_id")
	require.NoError(t, err)
	require.Len(t, mpl.Stages, 2)
	assert.Equal(t, RoundRobin2Legs, mpl.Stages[0].Type)
	assert.Equal(t, DoubleElimination, mpl.Stages[1].Type)
	assert.Equal(t, 6, mpl.Stages[1].Config.Teams())

	_, err = LookupPreset("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	all := Presets()
	require.Len(t, all, 3)
	assert.Equal(t, "champions_league", all[0].Key)
	assert.Equal(t, "world_cup", all[2].Key)
}
