package models

import "time"

// TournamentTeam: регистрация команды в турнире с посевом.
type TournamentTeam struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	TeamID        int       `json:"team_id" db:"team_id"`
	Seed          *int      `json:"seed,omitempty" db:"seed"`
	FinalPosition *int      `json:"final_position,omitempty" db:"final_position"`
	PrizeMoney    float64   `json:"prize_money" db:"prize_money"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
