package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownFormatType = errors.New("unknown format type")

// Config is the format_config of a stage. Each implementation carries only
// the keys valid for its format types.
type Config interface {
	// Teams returns the raw team count, 0 when unset.
	Teams() int
	SetTeams(n int)
	isConfig()
}

type EliminationConfig struct {
	TeamsCount        int      `json:"teams_count,omitempty"`
	MatchesPerRound   int      `json:"matches_per_round,omitempty"`
	SeedingRules      string   `json:"seeding_rules,omitempty"`
	ByeRules          string   `json:"bye_rules,omitempty"`
	TopSeedsByeRounds int      `json:"top_seeds_bye_rounds,omitempty"`
	RoundNames        []string `json:"round_names,omitempty"`
}

type RoundRobinConfig struct {
	TeamsCount              int    `json:"teams_count,omitempty"`
	MatchesPerRound         int    `json:"matches_per_round,omitempty"`
	HomeAwayRules           string `json:"home_away_rules,omitempty"`
	PointsSystem            string `json:"points_system,omitempty"`
	TiebreakerRules         string `json:"tiebreaker_rules,omitempty"`
	BalanceHomeAway         bool   `json:"balance_home_away,omitempty"`
	HeadToHeadTiebreak      bool   `json:"head_to_head_tiebreak,omitempty"`
	KillsDifferenceTiebreak bool   `json:"kills_difference_tiebreak,omitempty"`
}

type SwissConfig struct {
	TeamsCount    int    `json:"teams_count,omitempty"`
	Rounds        int    `json:"rounds,omitempty"`
	PairingSystem string `json:"pairing_system,omitempty"`
}

type GroupStageConfig struct {
	TeamsCount       int    `json:"teams_count,omitempty"`
	GroupSize        int    `json:"group_size,omitempty"`
	GroupsCount      int    `json:"groups_count,omitempty"`
	AdvancementRules string `json:"advancement_rules,omitempty"`
	PlayoffFormat    string `json:"playoff_format,omitempty"`
	SeedingSource    string `json:"seeding_source,omitempty"`
}

type LeaderboardConfig struct {
	TeamsCount   int    `json:"teams_count,omitempty"`
	PointsSystem string `json:"points_system,omitempty"`
}

type MultiStageConfig struct {
	StagesCount             int    `json:"stages_count,omitempty"`
	QualificationRules      string `json:"qualification_rules,omitempty"`
	QualificationCount      int    `json:"qualification_count,omitempty"`
	QualificationPercentage int    `json:"qualification_percentage,omitempty"`
	SeedingTransfer         string `json:"seeding_transfer,omitempty"`
	TeamsCount              int    `json:"teams_count,omitempty"`
}

type ComplexConfig struct {
	TotalTeams    int    `json:"total_teams,omitempty"`
	Stage1Format  string `json:"stage1_format,omitempty"`
	Stage1Teams   int    `json:"stage1_teams,omitempty"`
	Stage1Advance int    `json:"stage1_advance,omitempty"`
	Stage2Format  string `json:"stage2_format,omitempty"`
	Stage2Teams   int    `json:"stage2_teams,omitempty"`
	SeedingRules  string `json:"seeding_rules,omitempty"`
	ByeRules      string `json:"bye_rules,omitempty"`
}

func (c *EliminationConfig) Teams() int    { return c.TeamsCount }
func (c *EliminationConfig) SetTeams(n int) { c.TeamsCount = n }
func (*EliminationConfig) isConfig()       {}

func (c *RoundRobinConfig) Teams() int    { return c.TeamsCount }
func (c *RoundRobinConfig) SetTeams(n int) { c.TeamsCount = n }
func (*RoundRobinConfig) isConfig()       {}

func (c *SwissConfig) Teams() int    { return c.TeamsCount }
func (c *SwissConfig) SetTeams(n int) { c.TeamsCount = n }
func (*SwissConfig) isConfig()       {}

func (c *GroupStageConfig) Teams() int    { return c.TeamsCount }
func (c *GroupStageConfig) SetTeams(n int) { c.TeamsCount = n }
func (*GroupStageConfig) isConfig()       {}

func (c *LeaderboardConfig) Teams() int    { return c.TeamsCount }
func (c *LeaderboardConfig) SetTeams(n int) { c.TeamsCount = n }
func (*LeaderboardConfig) isConfig()       {}

func (c *MultiStageConfig) Teams() int    { return c.TeamsCount }
func (c *MultiStageConfig) SetTeams(n int) { c.TeamsCount = n }
func (*MultiStageConfig) isConfig()       {}

func (c *ComplexConfig) Teams() int    { return c.TotalTeams }
func (c *ComplexConfig) SetTeams(n int) { c.TotalTeams = n }
func (*ComplexConfig) isConfig()       {}

// TeamsOrDefault returns the configured team count, or DefaultTeamsCount
// when the config does not set one.
func TeamsOrDefault(cfg Config) int {
	if cfg == nil || cfg.Teams() <= 0 {
		return DefaultTeamsCount
	}
	return cfg.Teams()
}

// NewConfig returns the zero config variant for a format type.
func NewConfig(t FormatType) (Config, error) {
	switch t {
	case SingleElimination, DoubleElimination:
		return &EliminationConfig{}, nil
	case RoundRobin, RoundRobin2Legs:
		return &RoundRobinConfig{}, nil
	case SwissSystem:
		return &SwissConfig{}, nil
	case GroupStagePlayoffs:
		return &GroupStageConfig{}, nil
	case Leaderboard:
		return &LeaderboardConfig{}, nil
	case MultiStage:
		return &MultiStageConfig{}, nil
	case Complex:
		return &ComplexConfig{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormatType, string(t))
}

// Decode parses raw into the variant for t. In strict mode unknown keys and
// out-of-range values are rejected; lenient mode is used for rows already
// stored in the database and silently drops unknown keys.
func Decode(t FormatType, raw json.RawMessage, strict bool) (Config, error) {
	cfg, err := NewConfig(t)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s config: %w", t, err)
	}

	if strict {
		// Проверяем присланные значения, а не структуру: omitempty теряет явный 0.
		values := map[string]any{}
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("decode %s config: %w", t, err)
		}
		if err := CheckValues(t, values); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Encode serialises a config for storage.
func Encode(cfg Config) (json.RawMessage, error) {
	if cfg == nil {
		return json.RawMessage("{}"), nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode format config: %w", err)
	}
	return b, nil
}

// ToValues flattens a config into the key/value form the field table and
// visibility conditions work on.
func ToValues(cfg Config) (map[string]any, error) {
	raw, err := Encode(cfg)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("flatten format config: %w", err)
	}
	return values, nil
}

// RoundNamesOf returns the configured round names of an elimination config
// and nil for every other variant.
func RoundNamesOf(cfg Config) []string {
	if e, ok := cfg.(*EliminationConfig); ok {
		return e.RoundNames
	}
	return nil
}

// PointsSystemOf returns the configured points system, or "" when the
// variant has none.
func PointsSystemOf(cfg Config) string {
	switch c := cfg.(type) {
	case *RoundRobinConfig:
		return c.PointsSystem
	case *LeaderboardConfig:
		return c.PointsSystem
	}
	return ""
}
