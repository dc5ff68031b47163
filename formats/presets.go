package formats

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a ready-made stage list an operator can load into the editor.
type Preset struct {
	Key    string       `json:"key"`
	Title  string       `json:"title"`
	Stages []StageDraft `json:"stages"`
}

func groupStageOfEight() StageDraft {
	return StageDraft{
		Name:  "Group Stage",
		Order: 1,
		Type:  GroupStagePlayoffs,
		Config: &GroupStageConfig{
			TeamsCount:       8,
			GroupSize:        4,
			GroupsCount:      2,
			AdvancementRules: "top_2",
			PlayoffFormat:    "single_elimination",
			SeedingSource:    "group_standings",
		},
	}
}

var presets = map[string]func() Preset{
	"mpl_id": func() Preset {
		return Preset{
			Key:   "mpl_id",
			Title: "MPL ID Style",
			Stages: []StageDraft{
				{
					Name:  "Regular Season",
					Order: 1,
					Type:  RoundRobin2Legs,
					Config: &RoundRobinConfig{
						TeamsCount:         9,
						MatchesPerRound:    1,
						HomeAwayRules:      "designated",
						PointsSystem:       "3_1_0",
						TiebreakerRules:    "head_to_head",
						BalanceHomeAway:    true,
						HeadToHeadTiebreak: true,
					},
				},
				{
					Name:  "Playoffs",
					Order: 2,
					Type:  DoubleElimination,
					Config: &EliminationConfig{
						TeamsCount:        6,
						MatchesPerRound:   1,
						SeedingRules:      "by_standings",
						ByeRules:          "top_seeds",
						TopSeedsByeRounds: 1,
						RoundNames: []string{
							"Upper Quarter Final", "Lower Quarter Final", "Upper Semi Final",
							"Lower Semi Final", "Upper Final", "Lower Final", "Grand Final",
						},
					},
				},
			},
		}
	},
	"champions_league": func() Preset {
		return Preset{Key: "champions_league", Title: "Champions League Style", Stages: []StageDraft{groupStageOfEight()}}
	},
	"world_cup": func() Preset {
		return Preset{Key: "world_cup", Title: "World Cup Style", Stages: []StageDraft{groupStageOfEight()}}
	},
}

// LookupPreset returns a fresh copy of the named preset.
func LookupPreset(key string) (Preset, error) {
	build, ok := presets[key]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}
	return build(), nil
}

func Presets() []Preset {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Preset, 0, len(keys))
	for _, k := range keys {
		out = append(out, presets[k]())
	}
	return out
}
