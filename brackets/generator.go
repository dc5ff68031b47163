package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
)

var ErrNoRenderer = errors.New("format type has no bracket or standings view")

// RenderParams: всё, что нужно для отрисовки этапа: сам этап, его конфиг,
// зарегистрированные команды в порядке посева и матчи этапа.
type RenderParams struct {
	Stage   *models.TournamentStage
	Config  formats.Config
	Teams   []models.TournamentTeam
	Matches []models.Match
}

type Renderer interface {
	Render(params RenderParams) (*View, error)
	GetName() string
}

// View is the rendered stage. Kind is "bracket" or "standings".
type View struct {
	StageID    int                `json:"stage_id"`
	StageName  string             `json:"stage_name"`
	FormatType formats.FormatType `json:"format_type"`
	Kind       string             `json:"kind"`

	Rounds                []Round `json:"rounds,omitempty"`
	LowerBracketSupported *bool   `json:"lower_bracket_supported,omitempty"`

	Standings          []StandingRow         `json:"standings,omitempty"`
	Matrix             *models.MatchupMatrix `json:"matchup_matrix,omitempty"`
	PointsSystem       string                `json:"points_system,omitempty"`
	TiebreakersApplied *bool                 `json:"tiebreakers_applied,omitempty"`
}

const (
	KindBracket   = "bracket"
	KindStandings = "standings"
)

// RendererFor выбирает отрисовщик по типу формата.
func RendererFor(t formats.FormatType) (Renderer, error) {
	switch {
	case t.IsElimination():
		return NewEliminationRenderer(), nil
	case t.HasStandings():
		return NewStandingsRenderer(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoRenderer, string(t))
}

func newView(stage *models.TournamentStage, kind string) *View {
	v := &View{Kind: kind}
	if stage != nil {
		v.StageID = stage.ID
		v.StageName = stage.StageName
		v.FormatType = stage.FormatType
	}
	return v
}

// matchWinner returns winner_id, else the team with the strictly higher
// score. Draws and rows without both teams have no winner.
func matchWinner(m *models.Match) *int {
	if m.WinnerID != nil {
		return m.WinnerID
	}
	if m.Team1ID == nil || m.Team2ID == nil {
		return nil
	}
	switch {
	case m.Team1Score > m.Team2Score:
		return m.Team1ID
	case m.Team2Score > m.Team1Score:
		return m.Team2ID
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
