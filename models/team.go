package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	TeamName  string    `json:"team_name" db:"team_name"`
	TeamCode  string    `json:"team_code" db:"team_code"`
	Logo      *string   `json:"logo,omitempty" db:"logo"`
	Region    *string   `json:"region,omitempty" db:"region"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Players []Player `json:"players,omitempty" db:"-"`
}
