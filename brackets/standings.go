package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
)

const (
	PointsThreeOneZero = "3_1_0"
	PointsTwoOneZero   = "2_1_0"
	PointsWinLoss      = "win_loss"
)

type StandingRow struct {
	Position     int     `json:"position"`
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	TeamCode     string  `json:"team_code"`
	Logo         *string `json:"logo,omitempty"`
	Seed         *int    `json:"seed,omitempty"`
	Played       int     `json:"played"`
	Wins         int     `json:"wins"`
	Draws        int     `json:"draws"`
	Losses       int     `json:"losses"`
	ScoreFor     int     `json:"score_for"`
	ScoreAgainst int     `json:"score_against"`
	Points       int     `json:"points"`
}

// PointsFor returns points for a win, a draw and a loss. Unknown systems
// count wins only.
func PointsFor(system string) (win, draw, loss int) {
	switch system {
	case PointsThreeOneZero:
		return 3, 1, 0
	case PointsTwoOneZero:
		return 2, 1, 0
	}
	return 1, 0, 0
}

type StandingsRenderer struct{}

func NewStandingsRenderer() Renderer {
	return &StandingsRenderer{}
}

func (r *StandingsRenderer) GetName() string {
	return "Standings"
}

// Render считает таблицу по завершённым матчам этапа. Тай-брейки не
// применяются: порядок: очки, затем посев, затем id команды.
func (r *StandingsRenderer) Render(params RenderParams) (*View, error) {
	view := newView(params.Stage, KindStandings)
	system := formats.PointsSystemOf(params.Config)
	if system == "" {
		system = PointsWinLoss
	}
	view.PointsSystem = system
	view.TiebreakersApplied = boolPtr(false)

	winPts, drawPts, lossPts := PointsFor(system)

	rows := make(map[int]*StandingRow, len(params.Teams))
	order := make([]*StandingRow, 0, len(params.Teams))
	teams := make([]models.Team, 0, len(params.Teams))
	for _, tt := range params.Teams {
		if _, dup := rows[tt.TeamID]; dup {
			continue
		}
		row := &StandingRow{TeamID: tt.TeamID, Seed: tt.Seed}
		if tt.Team != nil {
			row.TeamName = tt.Team.TeamName
			row.TeamCode = tt.Team.TeamCode
			row.Logo = tt.Team.Logo
			teams = append(teams, *tt.Team)
		} else {
			teams = append(teams, models.Team{ID: tt.TeamID})
		}
		rows[tt.TeamID] = row
		order = append(order, row)
	}

	for i := range params.Matches {
		m := &params.Matches[i]
		if m.Status != models.MatchCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		a, okA := rows[*m.Team1ID]
		b, okB := rows[*m.Team2ID]
		if !okA || !okB {
			continue
		}

		a.Played++
		b.Played++
		a.ScoreFor += m.Team1Score
		a.ScoreAgainst += m.Team2Score
		b.ScoreFor += m.Team2Score
		b.ScoreAgainst += m.Team1Score

		winner := matchWinner(m)
		switch {
		case winner == nil:
			a.Draws++
			b.Draws++
			a.Points += drawPts
			b.Points += drawPts
		case *winner == a.TeamID:
			a.Wins++
			b.Losses++
			a.Points += winPts
			b.Points += lossPts
		case *winner == b.TeamID:
			b.Wins++
			a.Losses++
			b.Points += winPts
			a.Points += lossPts
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		x, y := order[i], order[j]
		if x.Points != y.Points {
			return x.Points > y.Points
		}
		if seedLess, decided := compareSeeds(x.Seed, y.Seed); decided {
			return seedLess
		}
		return x.TeamID < y.TeamID
	})

	view.Standings = make([]StandingRow, len(order))
	for i, row := range order {
		row.Position = i + 1
		view.Standings[i] = *row
	}

	matrix := BuildMatchupMatrix(teams, params.Matches)
	view.Matrix = &matrix
	return view, nil
}

// compareSeeds: команды без посева идут после посеянных.
func compareSeeds(a, b *int) (less, decided bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case *a != *b:
		return *a < *b, true
	}
	return false, false
}

const (
	CellSelf    = "-"
	CellMissing = "N/A"
)

// BuildMatchupMatrix заполняет таблицу личных встреч по завершённым матчам,
// где заданы обе команды. Ячейка [a][b]: "счёт_a-счёт_b". Обратная ячейка
// заполняется зеркально, если для неё нет собственной записи.
func BuildMatchupMatrix(teams []models.Team, matches []models.Match) models.MatchupMatrix {
	matrix := models.MatchupMatrix{
		Teams: teams,
		Cells: make(map[int]map[int]string, len(teams)),
	}
	known := make(map[int]bool, len(teams))
	for _, t := range teams {
		known[t.ID] = true
	}
	for _, row := range teams {
		cells := make(map[int]string, len(teams))
		for _, col := range teams {
			if row.ID == col.ID {
				cells[col.ID] = CellSelf
			} else {
				cells[col.ID] = CellMissing
			}
		}
		matrix.Cells[row.ID] = cells
	}

	recorded := make(map[[2]int]bool)
	for i := range matches {
		m := &matches[i]
		if m.Status != models.MatchCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		a, b := *m.Team1ID, *m.Team2ID
		if a == b || !known[a] || !known[b] {
			continue
		}
		matrix.Cells[a][b] = fmt.Sprintf("%d-%d", m.Team1Score, m.Team2Score)
		recorded[[2]int{a, b}] = true
	}

	for i := range matches {
		m := &matches[i]
		if m.Status != models.MatchCompleted || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		a, b := *m.Team1ID, *m.Team2ID
		if a == b || !known[a] || !known[b] || recorded[[2]int{b, a}] {
			continue
		}
		matrix.Cells[b][a] = fmt.Sprintf("%d-%d", m.Team2Score, m.Team1Score)
	}

	return matrix
}
