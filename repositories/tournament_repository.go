package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentInvalid  = errors.New("tournament violates a constraint (status or dates)")
)

// TournamentImageColumn: колонка с картинкой турнира.
type TournamentImageColumn string

const (
	TournamentLogo   TournamentImageColumn = "logo"
	TournamentBanner TournamentImageColumn = "banner"
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateImage(ctx context.Context, id int, column TournamentImageColumn, url *string) error
	UpdateFormatSummary(ctx context.Context, exec SQLExecutor, id int, summary json.RawMessage, hasMultipleStages bool) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, description, start_date, end_date, prize_pool, entry_fee,
	max_teams, min_teams, status, tournament_type, logo, banner,
	format_config, has_multiple_stages, created_at, updated_at`

func scanTournament(s rowScanner, t *models.Tournament) error {
	return s.Scan(
		&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate, &t.PrizePool, &t.EntryFee,
		&t.MaxTeams, &t.MinTeams, &t.Status, &t.TournamentType, &t.Logo, &t.Banner,
		(*[]byte)(&t.FormatConfig), &t.HasMultipleStages, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	query := `
		INSERT INTO tournaments (
			name, description, start_date, end_date, prize_pool, entry_fee,
			max_teams, min_teams, status, tournament_type, logo, banner,
			format_config, has_multiple_stages
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.PrizePool, t.EntryFee,
		t.MaxTeams, t.MinTeams, t.Status, t.TournamentType, t.Logo, t.Banner,
		nullableJSON(t.FormatConfig), t.HasMultipleStages,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	if err := scanTournament(executor.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	executor := r.getExecutor(nil)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := scanTournament(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

// Update не трогает logo/banner и format_config: у них свои методы.
func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	executor := r.getExecutor(nil)
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			start_date = $3,
			end_date = $4,
			prize_pool = $5,
			entry_fee = $6,
			max_teams = $7,
			min_teams = $8,
			status = $9,
			tournament_type = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Description, t.StartDate, t.EndDate, t.PrizePool, t.EntryFee,
		t.MaxTeams, t.MinTeams, t.Status, t.TournamentType,
		t.ID,
	).Scan(&t.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) UpdateImage(ctx context.Context, id int, column TournamentImageColumn, url *string) error {
	var query string
	switch column {
	case TournamentLogo:
		query = `UPDATE tournaments SET logo = $1, updated_at = NOW() WHERE id = $2`
	case TournamentBanner:
		query = `UPDATE tournaments SET banner = $1, updated_at = NOW() WHERE id = $2`
	default:
		return fmt.Errorf("unknown tournament image column %q", column)
	}
	result, err := r.getExecutor(nil).ExecContext(ctx, query, url, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", column, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateFormatSummary(ctx context.Context, exec SQLExecutor, id int, summary json.RawMessage, hasMultipleStages bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET format_config = $1, has_multiple_stages = $2, updated_at = NOW() WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, nullableJSON(summary), hasMultipleStages, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament format summary for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	executor := r.getExecutor(nil)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqCheckViolation {
		return ErrTournamentInvalid
	}
	return err
}
