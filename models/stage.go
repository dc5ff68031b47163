package models

import (
	"encoding/json"
	"time"

	"github.com/Dosada05/arenarium/formats"
)

type TournamentStage struct {
	ID           int                `json:"id" db:"id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	StageName    string             `json:"stage_name" db:"stage_name"`
	StageOrder   int                `json:"stage_order" db:"stage_order"`
	FormatType   formats.FormatType `json:"format_type" db:"format_type"`
	FormatConfig json.RawMessage    `json:"format_config,omitempty" db:"format_config"`
	IsActive     bool               `json:"is_active" db:"is_active"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}
