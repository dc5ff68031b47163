package models

import "time"

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchLive, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

type MatchType string

const (
	BestOf1 MatchType = "bo1"
	BestOf3 MatchType = "bo3"
	BestOf5 MatchType = "bo5"
	BestOf7 MatchType = "bo7"
)

func (t MatchType) Valid() bool {
	switch t {
	case BestOf1, BestOf3, BestOf5, BestOf7:
		return true
	}
	return false
}

type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	StageID      *int        `json:"stage_id,omitempty" db:"stage_id"`
	Team1ID      *int        `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID      *int        `json:"team2_id,omitempty" db:"team2_id"`
	MatchDate    time.Time   `json:"match_date" db:"match_date"`
	MatchType    MatchType   `json:"match_type" db:"match_type"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerID     *int        `json:"winner_id,omitempty" db:"winner_id"`
	Team1Score   int         `json:"team1_score" db:"team1_score"`
	Team2Score   int         `json:"team2_score" db:"team2_score"`
	Stage        string      `json:"stage" db:"stage"`
	RoundNumber  int         `json:"round_number" db:"round_number"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	Venue        *string     `json:"venue,omitempty" db:"venue"`
	StreamURL    *string     `json:"stream_url,omitempty" db:"stream_url"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	// Заполняются JOIN'ом в списках матчей.
	Team1Name      *string `json:"team1_name,omitempty" db:"team1_name"`
	Team2Name      *string `json:"team2_name,omitempty" db:"team2_name"`
	TournamentName *string `json:"tournament_name,omitempty" db:"tournament_name"`

	Games []Game `json:"games,omitempty" db:"-"`
}

type Game struct {
	ID           int       `json:"id" db:"id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	GameNumber   int       `json:"game_number" db:"game_number"`
	Team1Score   int       `json:"team1_score" db:"team1_score"`
	Team2Score   int       `json:"team2_score" db:"team2_score"`
	WinnerID     *int      `json:"winner_id,omitempty" db:"winner_id"`
	Duration     int       `json:"duration" db:"duration"`
	PatchVersion *string   `json:"patch_version,omitempty" db:"patch_version"`
	GameDate     time.Time `json:"game_date" db:"game_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
