package brackets

import (
	"fmt"

	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
)

type Round struct {
	Number  int            `json:"number"`
	Name    string         `json:"name"`
	Matches []BracketMatch `json:"matches"`
}

type Slot struct {
	TeamID   *int    `json:"team_id,omitempty"`
	TeamName *string `json:"team_name,omitempty"`
	Seed     *int    `json:"seed,omitempty"`
	Score    *int    `json:"score,omitempty"`
	IsBye    bool    `json:"is_bye,omitempty"`
	IsWinner bool    `json:"is_winner,omitempty"`
}

type BracketMatch struct {
	UID          string              `json:"uid"`
	Round        int                 `json:"round"`
	OrderInRound int                 `json:"order_in_round"`
	MatchID      *int                `json:"match_id,omitempty"`
	Status       *models.MatchStatus `json:"status,omitempty"`
	MatchDate    *string             `json:"match_date,omitempty"`
	Team1        Slot                `json:"team1"`
	Team2        Slot                `json:"team2"`
	IsBye        bool                `json:"is_bye,omitempty"`
	WinnerID     *int                `json:"winner_id,omitempty"`
	NextMatchUID *string             `json:"next_match_uid,omitempty"`
}

// node: состояние слота: команда, пусто (bye) или ещё не определено.
type node struct {
	teamID *int
	isBye  bool
}

type EliminationRenderer struct{}

func NewEliminationRenderer() Renderer {
	return &EliminationRenderer{}
}

func (r *EliminationRenderer) GetName() string {
	return "Elimination"
}

func matchUID(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

// Render строит верхнюю сетку. Слоты первого раунда заполняются по посеву
// (1-2, 3-4, ...), результат берётся из строки matches с тем же
// (round_number, match_number). Победитель матча m раунда r идёт в матч
// ceil(m/2) раунда r+1: нечётный m в слот 1, чётный в слот 2.
func (r *EliminationRenderer) Render(params RenderParams) (*View, error) {
	view := newView(params.Stage, KindBracket)
	if params.Stage != nil && params.Stage.FormatType == formats.DoubleElimination {
		view.LowerBracketSupported = boolPtr(false)
	}

	teamsCount := 0
	if params.Config != nil {
		teamsCount = params.Config.Teams()
	}
	if teamsCount <= 0 {
		teamsCount = len(params.Teams)
	}
	if teamsCount <= 0 {
		teamsCount = formats.DefaultTeamsCount
	}

	totalRounds := formats.RoundCount(teamsCount)
	if totalRounds == 0 {
		return view, nil
	}
	customNames := formats.RoundNamesOf(params.Config)

	teamsByID := make(map[int]*models.TournamentTeam, len(params.Teams))
	for i := range params.Teams {
		teamsByID[params.Teams[i].TeamID] = &params.Teams[i]
	}

	rows := make(map[string]*models.Match, len(params.Matches))
	for i := range params.Matches {
		m := &params.Matches[i]
		rows[matchUID(m.RoundNumber, m.MatchNumber)] = m
	}

	size := 1 << uint(totalRounds)
	current := make([]node, size)
	for i := range current {
		if i < len(params.Teams) && i < teamsCount {
			id := params.Teams[i].TeamID
			current[i] = node{teamID: &id}
		} else {
			current[i] = node{isBye: true}
		}
	}

	view.Rounds = make([]Round, 0, totalRounds)
	for round := 1; round <= totalRounds; round++ {
		matchesInRound := len(current) / 2
		next := make([]node, matchesInRound)
		out := Round{
			Number:  round,
			Name:    formats.RoundName(customNames, round, totalRounds),
			Matches: make([]BracketMatch, 0, matchesInRound),
		}

		for m := 1; m <= matchesInRound; m++ {
			n1, n2 := current[2*m-2], current[2*m-1]
			uid := matchUID(round, m)
			bm := BracketMatch{UID: uid, Round: round, OrderInRound: m}
			if round < totalRounds {
				nextUID := matchUID(round+1, (m+1)/2)
				bm.NextMatchUID = &nextUID
			}

			row := rows[uid]
			if row != nil {
				// Неизвестный слот сетки берём из строки матча, если он там задан.
				if n1.teamID == nil && !n1.isBye && row.Team1ID != nil {
					n1 = node{teamID: row.Team1ID}
				}
				if n2.teamID == nil && !n2.isBye && row.Team2ID != nil {
					n2 = node{teamID: row.Team2ID}
				}
				id, status := row.ID, row.Status
				date := row.MatchDate.Format("2006-01-02T15:04:05Z07:00")
				bm.MatchID, bm.Status, bm.MatchDate = &id, &status, &date
			}

			bm.Team1 = slotFor(n1, teamsByID)
			bm.Team2 = slotFor(n2, teamsByID)

			var advance node
			switch {
			case n1.isBye && n2.isBye:
				advance = node{isBye: true}
			case n1.teamID != nil && n2.isBye:
				bm.IsBye = true
				advance = node{teamID: n1.teamID}
			case n2.teamID != nil && n1.isBye:
				bm.IsBye = true
				advance = node{teamID: n2.teamID}
			case row != nil && row.Status == models.MatchCompleted:
				fillScores(&bm, row, n1, n2)
				if winner := slotWinner(row, n1, n2); winner != nil {
					advance = node{teamID: winner}
				}
			case row != nil:
				fillScores(&bm, row, n1, n2)
			}

			if advance.teamID != nil {
				bm.WinnerID = advance.teamID
				bm.Team1.IsWinner = n1.teamID != nil && *n1.teamID == *advance.teamID
				bm.Team2.IsWinner = n2.teamID != nil && *n2.teamID == *advance.teamID
			}

			next[m-1] = advance
			out.Matches = append(out.Matches, bm)
		}

		view.Rounds = append(view.Rounds, out)
		current = next
	}

	return view, nil
}

func slotFor(n node, teams map[int]*models.TournamentTeam) Slot {
	if n.isBye {
		return Slot{IsBye: true}
	}
	if n.teamID == nil {
		return Slot{}
	}
	s := Slot{TeamID: n.teamID}
	if tt, ok := teams[*n.teamID]; ok {
		s.Seed = tt.Seed
		if tt.Team != nil {
			name := tt.Team.TeamName
			s.TeamName = &name
		}
	}
	return s
}

// slotWinner: победитель матча, только если он стоит в одном из двух слотов.
// Чужой winner_id считается неопределённым результатом, как ничья.
func slotWinner(row *models.Match, n1, n2 node) *int {
	winner := matchWinner(row)
	if winner == nil {
		return nil
	}
	w := *winner
	if (n1.teamID != nil && *n1.teamID == w) || (n2.teamID != nil && *n2.teamID == w) {
		return &w
	}
	return nil
}

// fillScores раскладывает счёт строки по слотам сетки. Команды в строке могут
// стоять в обратном порядке относительно слотов.
func fillScores(bm *BracketMatch, row *models.Match, n1, n2 node) {
	s1, s2 := row.Team1Score, row.Team2Score
	if n1.teamID != nil && row.Team2ID != nil && *n1.teamID == *row.Team2ID {
		s1, s2 = s2, s1
	} else if n2.teamID != nil && row.Team1ID != nil && *n2.teamID == *row.Team1ID {
		s1, s2 = s2, s1
	}
	bm.Team1.Score = &s1
	bm.Team2.Score = &s2
}
