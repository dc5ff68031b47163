package models

import (
	"encoding/json"
	"time"
)

// TournamentStatus представляет статусы турнира, соответствующие CHECK в БД.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
	StatusCancelled TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID                int              `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Description       *string          `json:"description,omitempty" db:"description"`
	StartDate         time.Time        `json:"start_date" db:"start_date"`
	EndDate           time.Time        `json:"end_date" db:"end_date"`
	PrizePool         *float64         `json:"prize_pool,omitempty" db:"prize_pool"`
	EntryFee          *float64         `json:"entry_fee,omitempty" db:"entry_fee"`
	MaxTeams          *int             `json:"max_teams,omitempty" db:"max_teams"`
	MinTeams          *int             `json:"min_teams,omitempty" db:"min_teams"`
	Status            TournamentStatus `json:"status" db:"status"`
	TournamentType    string           `json:"tournament_type" db:"tournament_type"`
	Logo              *string          `json:"logo,omitempty" db:"logo"`
	Banner            *string          `json:"banner,omitempty" db:"banner"`
	FormatConfig      json.RawMessage  `json:"format_config,omitempty" db:"format_config"`
	HasMultipleStages bool             `json:"has_multiple_stages" db:"has_multiple_stages"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Stages        []TournamentStage `json:"tournament_stages,omitempty" db:"-"`
	UpcomingMatch *Match            `json:"upcoming_match,omitempty" db:"-"`
	LastMatch     *Match            `json:"last_match,omitempty" db:"-"`
}

// FormatSummary is the document stored in tournaments.format_config when
// the stage list is saved.
type FormatSummary struct {
	TotalStages int       `json:"total_stages"`
	TeamsCount  int       `json:"teams_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TournamentDetails: всё, что нужно странице турнира.
type TournamentDetails struct {
	Tournament *Tournament       `json:"tournament"`
	Teams      []TournamentTeam  `json:"teams"`
	Matches    []Match           `json:"matches"`
	Stages     []TournamentStage `json:"stages"`
}
