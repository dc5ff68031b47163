package models

import "time"

// Известные значения stat_type.
const (
	StatWinRate         = "win_rate"
	StatMatchCount      = "match_count"
	StatTotalWins       = "total_wins"
	StatTournamentCount = "tournament_count"
)

type Statistic struct {
	ID           int       `json:"id" db:"id"`
	TeamID       *int      `json:"team_id,omitempty" db:"team_id"`
	TournamentID *int      `json:"tournament_id,omitempty" db:"tournament_id"`
	MatchID      *int      `json:"match_id,omitempty" db:"match_id"`
	StatType     string    `json:"stat_type" db:"stat_type"`
	StatValue    float64   `json:"stat_value" db:"stat_value"`
	StatDate     time.Time `json:"stat_date" db:"stat_date"`
}

type StatisticsSummary struct {
	TotalTeams       int     `json:"total_teams"`
	TotalTournaments int     `json:"total_tournaments"`
	TotalMatches     int     `json:"total_matches"`
	AverageWinRate   float64 `json:"average_win_rate"`
}

type TeamStatistics struct {
	Team       Team    `json:"team"`
	WinRate    float64 `json:"win_rate"`
	MatchCount float64 `json:"match_count"`
	TotalWins  float64 `json:"total_wins"`
}

// MatchupMatrix holds head-to-head results keyed by row team then column
// team. Cells are "-", "N/A" or "a-b".
type MatchupMatrix struct {
	Teams []Team                 `json:"teams"`
	Cells map[int]map[int]string `json:"cells"`
}

type StatisticsReport struct {
	Summary    StatisticsSummary `json:"summary"`
	TeamStats  []TeamStatistics  `json:"team_stats"`
	Statistics []Statistic       `json:"statistics"`
	Matrix     MatchupMatrix     `json:"matchup_matrix"`
}
