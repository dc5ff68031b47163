package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
	"github.com/lib/pq"
)

var (
	ErrStageNotFound      = errors.New("tournament stage not found")
	ErrStageOrderConflict = errors.New("stage order already used in this tournament")
	ErrStageInvalidFormat = errors.New("unknown stage format type")
)

type StageRepository interface {
	GetByID(ctx context.Context, id int) (*models.TournamentStage, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentStage, error)
	ListByTournaments(ctx context.Context, tournamentIDs []int) (map[int][]models.TournamentStage, error)
	// ReplaceForTournament приводит набор этапов турнира к переданному списку.
	// Этапы сопоставляются по stage_order, поэтому id существующих этапов
	// (и ссылки matches.stage_id на них) сохраняются.
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, stages []models.TournamentStage) ([]models.TournamentStage, error)
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const stageColumns = `id, tournament_id, stage_name, stage_order, format_type, format_config, is_active, created_at, updated_at`

func scanStage(s rowScanner, st *models.TournamentStage) error {
	return s.Scan(&st.ID, &st.TournamentID, &st.StageName, &st.StageOrder, &st.FormatType,
		(*[]byte)(&st.FormatConfig), &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
}

func (r *postgresStageRepository) GetByID(ctx context.Context, id int) (*models.TournamentStage, error) {
	var st models.TournamentStage
	err := scanStage(r.db.QueryRowContext(ctx, `SELECT `+stageColumns+` FROM tournament_stages WHERE id = $1`, id), &st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *postgresStageRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentStage, error) {
	query := `SELECT ` + stageColumns + ` FROM tournament_stages WHERE tournament_id = $1 ORDER BY stage_order`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	stages := make([]models.TournamentStage, 0)
	for rows.Next() {
		var st models.TournamentStage
		if err := scanStage(rows, &st); err != nil {
			return nil, fmt.Errorf("failed to scan tournament stage: %w", err)
		}
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

func (r *postgresStageRepository) ListByTournaments(ctx context.Context, tournamentIDs []int) (map[int][]models.TournamentStage, error) {
	result := make(map[int][]models.TournamentStage, len(tournamentIDs))
	if len(tournamentIDs) == 0 {
		return result, nil
	}

	ids := make([]int64, len(tournamentIDs))
	for i, id := range tournamentIDs {
		ids[i] = int64(id)
	}

	query := `SELECT ` + stageColumns + ` FROM tournament_stages WHERE tournament_id = ANY($1) ORDER BY tournament_id, stage_order`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list stages for tournaments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.TournamentStage
		if err := scanStage(rows, &st); err != nil {
			return nil, fmt.Errorf("failed to scan tournament stage: %w", err)
		}
		result[st.TournamentID] = append(result[st.TournamentID], st)
	}
	return result, rows.Err()
}

func (r *postgresStageRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, stages []models.TournamentStage) ([]models.TournamentStage, error) {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx,
		`DELETE FROM tournament_stages WHERE tournament_id = $1 AND stage_order > $2`,
		tournamentID, len(stages)); err != nil {
		return nil, fmt.Errorf("failed to delete surplus stages for tournament %d: %w", tournamentID, err)
	}

	query := `
		INSERT INTO tournament_stages (tournament_id, stage_name, stage_order, format_type, format_config, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (tournament_id, stage_order) DO UPDATE SET
			stage_name = EXCLUDED.stage_name,
			format_type = EXCLUDED.format_type,
			format_config = EXCLUDED.format_config,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING ` + stageColumns

	saved := make([]models.TournamentStage, 0, len(stages))
	for _, st := range stages {
		var out models.TournamentStage
		row := executor.QueryRowContext(ctx, query,
			tournamentID, st.StageName, st.StageOrder, st.FormatType, nullableJSON(st.FormatConfig))
		if err := scanStage(row, &out); err != nil {
			return nil, r.handleStageError(err)
		}
		saved = append(saved, out)
	}
	return saved, nil
}

func (r *postgresStageRepository) handleStageError(err error) error {
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrStageOrderConflict
		case pqCheckViolation:
			return ErrStageInvalidFormat
		case pqForeignKeyViolation:
			return ErrTournamentNotFound
		}
	}
	return fmt.Errorf("failed to save tournament stage: %w", err)
}
