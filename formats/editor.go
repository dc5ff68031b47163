package formats

import (
	"encoding/json"
	"errors"
	"fmt"
)

const NoticeRoundNamesRegenerated = "round_names_regenerated"

// Notice tells the editor about a side effect of a change, such as custom
// round names being replaced.
type Notice struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Discarded []string `json:"discarded,omitempty"`
}

// StageDraft is one stage as edited by an operator before it is saved.
type StageDraft struct {
	Name   string
	Order  int
	Type   FormatType
	Config Config
}

type stageDraftJSON struct {
	Name   string          `json:"stage_name"`
	Order  int             `json:"stage_order"`
	Type   FormatType      `json:"format_type"`
	Config json.RawMessage `json:"format_config,omitempty"`
}

func (d StageDraft) MarshalJSON() ([]byte, error) {
	raw, err := Encode(d.Config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stageDraftJSON{Name: d.Name, Order: d.Order, Type: d.Type, Config: raw})
}

// UnmarshalJSON decodes format_config strictly against format_type.
func (d *StageDraft) UnmarshalJSON(data []byte) error {
	var in stageDraftJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	cfg, err := Decode(in.Type, in.Config, true)
	if err != nil {
		return err
	}
	*d = StageDraft{Name: in.Name, Order: in.Order, Type: in.Type, Config: cfg}
	return nil
}

// NewStageDraft returns the stage the editor appends: a single elimination
// bracket of eight teams.
func NewStageDraft(order int) StageDraft {
	return StageDraft{
		Name:  fmt.Sprintf("Stage %d", order),
		Order: order,
		Type:  SingleElimination,
		Config: &EliminationConfig{
			TeamsCount:      DefaultTeamsCount,
			MatchesPerRound: 1,
			RoundNames:      DefaultRoundNames(DefaultTeamsCount),
		},
	}
}

// EnsureRoundNames fills in default round names for an elimination stage
// that has none. Other stages are returned unchanged.
func EnsureRoundNames(d StageDraft) StageDraft {
	e, ok := d.Config.(*EliminationConfig)
	if !ok || !d.Type.IsElimination() || len(e.RoundNames) > 0 {
		return d
	}
	e.RoundNames = DefaultRoundNames(TeamsOrDefault(e))
	return d
}

// ChangeFormatType switches the stage to another format type. The team count
// carries over; other keys that the new type does not accept are dropped.
// Switching to an elimination type regenerates round names.
func ChangeFormatType(d StageDraft, to FormatType, preserveRoundNames bool) (StageDraft, []Notice, error) {
	if !to.Valid() {
		return d, nil, fmt.Errorf("%w: %q", ErrUnknownFormatType, string(to))
	}
	teams := 0
	var oldNames []string
	if d.Config != nil {
		teams = d.Config.Teams()
		oldNames = RoundNamesOf(d.Config)
	}

	var cfg Config
	if to.IsElimination() && d.Type.IsElimination() && d.Config != nil {
		cfg = d.Config
	} else {
		fresh, err := NewConfig(to)
		if err != nil {
			return d, nil, err
		}
		if teams > 0 {
			fresh.SetTeams(teams)
		}
		cfg = fresh
	}

	d.Type = to
	d.Config = cfg
	if !to.IsElimination() {
		return d, nil, nil
	}

	notices := regenerate(cfg.(*EliminationConfig), oldNames, preserveRoundNames)
	return d, notices, nil
}

// ChangeTeamsCount sets the team count and, for elimination stages,
// regenerates round names to ceil(log2(n)) entries.
func ChangeTeamsCount(d StageDraft, n int, preserveRoundNames bool) (StageDraft, []Notice, error) {
	if n < 1 {
		return d, nil, errors.New("teams_count must be positive")
	}
	if f := teamsField(d.Type); f != nil {
		if f.Min != nil && n < *f.Min {
			return d, nil, fmt.Errorf("%s must be at least %d", f.Key, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return d, nil, fmt.Errorf("%s must be at most %d", f.Key, *f.Max)
		}
	}
	if d.Config == nil {
		cfg, err := NewConfig(d.Type)
		if err != nil {
			return d, nil, err
		}
		d.Config = cfg
	}
	d.Config.SetTeams(n)

	e, ok := d.Config.(*EliminationConfig)
	if !ok || !d.Type.IsElimination() {
		return d, nil, nil
	}
	return d, regenerate(e, e.RoundNames, preserveRoundNames), nil
}

func regenerate(e *EliminationConfig, oldNames []string, preserve bool) []Notice {
	names, discarded := ResizeRoundNames(oldNames, TeamsOrDefault(e), preserve)
	e.RoundNames = names
	if len(discarded) == 0 {
		return nil
	}
	return []Notice{{
		Code:      NoticeRoundNamesRegenerated,
		Message:   fmt.Sprintf("%d custom round name(s) were replaced by defaults", len(discarded)),
		Discarded: discarded,
	}}
}

// Renumber assigns stage orders 1..n following slice order.
func Renumber(stages []StageDraft) []StageDraft {
	for i := range stages {
		stages[i].Order = i + 1
	}
	return stages
}

func RemoveStage(stages []StageDraft, index int) []StageDraft {
	if index < 0 || index >= len(stages) {
		return stages
	}
	out := make([]StageDraft, 0, len(stages)-1)
	out = append(out, stages[:index]...)
	out = append(out, stages[index+1:]...)
	return Renumber(out)
}

// MoveStage swaps the stage at index with its neighbour. Moves past either
// end are ignored.
func MoveStage(stages []StageDraft, index int, up bool) []StageDraft {
	target := index + 1
	if up {
		target = index - 1
	}
	if index < 0 || index >= len(stages) || target < 0 || target >= len(stages) {
		return stages
	}
	stages[index], stages[target] = stages[target], stages[index]
	return Renumber(stages)
}
