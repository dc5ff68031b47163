package formats

import (
	"fmt"
	"math"
	"sort"
)

type InputKind string

const (
	InputNumber InputKind = "number"
	InputSelect InputKind = "select"
)

// Condition makes a field visible only while another field holds one of the
// listed values.
type Condition struct {
	Key   string   `json:"key"`
	OneOf []string `json:"one_of"`
}

func (c *Condition) Matches(values map[string]any) bool {
	if c == nil {
		return true
	}
	current, ok := values[c.Key]
	if !ok || current == nil {
		return false
	}
	s := fmt.Sprint(current)
	for _, v := range c.OneOf {
		if v == s {
			return true
		}
	}
	return false
}

// Field describes one editable key of a stage's format_config.
type Field struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Kind      InputKind  `json:"input_kind"`
	Min       *int       `json:"min,omitempty"`
	Max       *int       `json:"max,omitempty"`
	Options   []string   `json:"options,omitempty"`
	Condition *Condition `json:"condition,omitempty"`
}

func number(key, label string, min, max int) Field {
	return Field{Key: key, Label: label, Kind: InputNumber, Min: &min, Max: &max}
}

func selectOf(key, label string, options ...string) Field {
	return Field{Key: key, Label: label, Kind: InputSelect, Options: options}
}

func (f Field) when(key string, oneOf ...string) Field {
	f.Condition = &Condition{Key: key, OneOf: oneOf}
	return f
}

var eliminationFields = []Field{
	number("teams_count", "Number of Teams", 2, 64),
	number("matches_per_round", "Matches per Round", 1, 10),
	selectOf("seeding_rules", "Seeding Rules", "random", "by_standings", "by_rank", "custom"),
	selectOf("bye_rules", "Bye Rules", "none", "top_seeds", "power_of_2", "custom"),
	number("top_seeds_bye_rounds", "Top Seeds Bye Rounds", 0, 3).when("bye_rules", "top_seeds", "custom"),
}

var roundRobinFields = []Field{
	number("teams_count", "Number of Teams", 2, 32),
	number("matches_per_round", "Matches per Round", 1, 5),
	selectOf("home_away_rules", "Side Selection Rules", "none", "alternating", "designated", "random"),
	selectOf("points_system", "Points System", "win_loss", "3_1_0", "2_1_0", "custom"),
	selectOf("tiebreaker_rules", "Tiebreaker Rules", "head_to_head", "kills_difference", "objectives_difference", "total_score", "random"),
}

var fieldTable = map[FormatType][]Field{
	SingleElimination: eliminationFields,
	DoubleElimination: eliminationFields,
	RoundRobin:        roundRobinFields,
	RoundRobin2Legs:   roundRobinFields,
	SwissSystem: {
		number("teams_count", "Number of Teams", 4, 128),
		number("rounds", "Number of Rounds", 3, 10),
		selectOf("pairing_system", "Pairing System", "standard", "accelerated", "modified"),
	},
	GroupStagePlayoffs: {
		number("teams_count", "Total Teams", 8, 64),
		number("group_size", "Teams per Group", 4, 8),
		number("groups_count", "Number of Groups", 2, 8),
		selectOf("advancement_rules", "Advancement Rules", "top_2", "top_3", "top_4", "custom"),
		selectOf("playoff_format", "Playoff Format", "single_elimination", "double_elimination", "round_robin"),
		selectOf("seeding_source", "Seeding Source", "group_standings", "overall_record", "head_to_head"),
	},
	Leaderboard: {
		number("teams_count", "Number of Teams", 2, 100),
		selectOf("points_system", "Points System", "win_loss", "points_based"),
	},
	MultiStage: {
		number("stages_count", "Number of Stages", 2, 5),
		selectOf("qualification_rules", "Qualification Rules", "top_n", "percentage", "points_threshold", "custom"),
		number("qualification_count", "Teams to Advance", 2, 16).when("qualification_rules", "top_n"),
		number("qualification_percentage", "Advancement %", 10, 100).when("qualification_rules", "percentage"),
		selectOf("seeding_transfer", "Seeding Transfer", "none", "standings_order", "points_based", "head_to_head"),
	},
	Complex: {
		number("total_teams", "Total Teams", 4, 32),
		selectOf("stage1_format", "Stage 1 Format", "round_robin", "round_robin_2_legs", "swiss", "groups"),
		number("stage1_teams", "Stage 1 Teams", 4, 32),
		number("stage1_advance", "Teams to Advance", 2, 16),
		selectOf("stage2_format", "Stage 2 Format", "single_elimination", "double_elimination", "round_robin"),
		number("stage2_teams", "Stage 2 Teams", 2, 16),
		selectOf("seeding_rules", "Seeding Rules", "by_standings", "by_points", "by_head_to_head", "random"),
		selectOf("bye_rules", "Bye Rules", "none", "top_2_semifinal", "top_4_quarterfinal", "custom"),
	},
}

var fallbackFields = []Field{
	number("teams_count", "Number of Teams", 2, 64),
}

// teamsField returns the team count field of a format type, nil when the
// table has none.
func teamsField(t FormatType) *Field {
	for _, f := range Fields(t) {
		if f.Key == "teams_count" || f.Key == "total_teams" {
			f := f
			return &f
		}
	}
	return nil
}

// Fields returns the ordered field list for a format type. Unknown types get
// a single teams_count field.
func Fields(t FormatType) []Field {
	fields, ok := fieldTable[t]
	if !ok {
		fields = fallbackFields
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// VisibleFields filters Fields(t) down to the ones whose condition holds for
// the current values.
func VisibleFields(t FormatType, values map[string]any) []Field {
	all := Fields(t)
	visible := make([]Field, 0, len(all))
	for _, f := range all {
		if f.Condition.Matches(values) {
			visible = append(visible, f)
		}
	}
	return visible
}

// ValidationErrors maps a config key to a human readable problem.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := "invalid format_config:"
	for _, k := range keys {
		msg += fmt.Sprintf(" %s %s;", k, v[k])
	}
	return msg
}

// CheckValues validates the present, visible keys of values against the
// field table. Absent keys are not an error.
func CheckValues(t FormatType, values map[string]any) error {
	problems := ValidationErrors{}
	for _, f := range VisibleFields(t, values) {
		raw, ok := values[f.Key]
		if !ok || raw == nil {
			continue
		}
		switch f.Kind {
		case InputNumber:
			n, isNum := toFloat(raw)
			if !isNum || n != math.Trunc(n) {
				problems[f.Key] = "must be a whole number"
				continue
			}
			if f.Min != nil && int(n) < *f.Min {
				problems[f.Key] = fmt.Sprintf("must be at least %d", *f.Min)
			} else if f.Max != nil && int(n) > *f.Max {
				problems[f.Key] = fmt.Sprintf("must be at most %d", *f.Max)
			}
		case InputSelect:
			s, isStr := raw.(string)
			if !isStr || !contains(f.Options, s) {
				problems[f.Key] = fmt.Sprintf("must be one of %v", f.Options)
			}
		}
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
