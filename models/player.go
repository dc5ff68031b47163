package models

import "time"

type PlayerStatus string

const (
	PlayerActive   PlayerStatus = "active"
	PlayerInactive PlayerStatus = "inactive"
)

func (s PlayerStatus) Valid() bool {
	return s == PlayerActive || s == PlayerInactive
}

type Player struct {
	ID          int          `json:"id" db:"id"`
	RealName    string       `json:"real_name" db:"real_name"`
	InGameName  string       `json:"in_game_name" db:"in_game_name"`
	TeamCode    *string      `json:"team_code,omitempty" db:"team_code"`
	PlayerPhoto *string      `json:"player_photo,omitempty" db:"player_photo"`
	Role        string       `json:"role" db:"role"`
	Status      PlayerStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// PlayerFilterOptions: значения для выпадающих фильтров на странице игроков.
type PlayerFilterOptions struct {
	Roles     []string `json:"roles"`
	TeamCodes []string `json:"team_codes"`
}
