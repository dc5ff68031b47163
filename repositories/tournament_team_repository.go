package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrTournamentTeamNotFound = errors.New("tournament team not found")
	ErrTeamAlreadyRegistered  = errors.New("team already registered in tournament")
	ErrSeedConflict           = errors.New("seed already taken in tournament")
	ErrTournamentTeamInvalid  = errors.New("tournament or team does not exist")
)

type TournamentTeamRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentTeam, error)
	GetByID(ctx context.Context, id int) (*models.TournamentTeam, error)
	Add(ctx context.Context, exec SQLExecutor, entry *models.TournamentTeam) error
	Update(ctx context.Context, entry *models.TournamentTeam) error
	Remove(ctx context.Context, id int) error
	// SwapSeeds меняет посев двух записей одного турнира в одной транзакции.
	SwapSeeds(ctx context.Context, firstID, secondID int) error
	// ReplaceForTournament удаляет все регистрации турнира и вставляет переданные.
	ReplaceForTournament(ctx context.Context, tournamentID int, entries []models.TournamentTeam) error
}

type postgresTournamentTeamRepository struct {
	db *sql.DB
}

func NewPostgresTournamentTeamRepository(db *sql.DB) TournamentTeamRepository {
	return &postgresTournamentTeamRepository{db: db}
}

func (r *postgresTournamentTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentTeamSelect = `
	SELECT tt.id, tt.tournament_id, tt.team_id, tt.seed, tt.final_position, tt.prize_money,
	       tt.created_at, tt.updated_at,
	       t.id, t.team_name, t.team_code, t.logo, t.region, t.created_at, t.updated_at
	FROM tournament_teams tt
	JOIN teams t ON t.id = tt.team_id`

func scanTournamentTeam(s rowScanner, e *models.TournamentTeam) error {
	team := &models.Team{}
	err := s.Scan(&e.ID, &e.TournamentID, &e.TeamID, &e.Seed, &e.FinalPosition, &e.PrizeMoney,
		&e.CreatedAt, &e.UpdatedAt,
		&team.ID, &team.TeamName, &team.TeamCode, &team.Logo, &team.Region, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return err
	}
	e.Team = team
	return nil
}

// ListByTournament возвращает команды в порядке посева; без посева: в конце.
func (r *postgresTournamentTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentTeam, error) {
	query := tournamentTeamSelect + ` WHERE tt.tournament_id = $1 ORDER BY tt.seed ASC NULLS LAST, tt.id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]models.TournamentTeam, 0)
	for rows.Next() {
		var e models.TournamentTeam
		if err := scanTournamentTeam(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan tournament team: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresTournamentTeamRepository) GetByID(ctx context.Context, id int) (*models.TournamentTeam, error) {
	var e models.TournamentTeam
	if err := scanTournamentTeam(r.db.QueryRowContext(ctx, tournamentTeamSelect+` WHERE tt.id = $1`, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentTeamNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresTournamentTeamRepository) Add(ctx context.Context, exec SQLExecutor, e *models.TournamentTeam) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_teams (tournament_id, team_id, seed, final_position, prize_money)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query, e.TournamentID, e.TeamID, e.Seed, e.FinalPosition, e.PrizeMoney).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return handleTournamentTeamError(err)
}

func (r *postgresTournamentTeamRepository) Update(ctx context.Context, e *models.TournamentTeam) error {
	query := `
		UPDATE tournament_teams SET
			seed = $1,
			final_position = $2,
			prize_money = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING tournament_id, team_id, updated_at`
	err := r.db.QueryRowContext(ctx, query, e.Seed, e.FinalPosition, e.PrizeMoney, e.ID).
		Scan(&e.TournamentID, &e.TeamID, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentTeamNotFound
	}
	return handleTournamentTeamError(err)
}

func (r *postgresTournamentTeamRepository) Remove(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournament_teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove tournament team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentTeamNotFound)
}

func (r *postgresTournamentTeamRepository) SwapSeeds(ctx context.Context, firstID, secondID int) error {
	return RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		// Ограничение уникальности посева отложено до COMMIT, иначе обмен невозможен.
		if _, err := tx.ExecContext(ctx, `SET CONSTRAINTS tournament_teams_tournament_id_seed_key DEFERRED`); err != nil {
			return fmt.Errorf("failed to defer seed constraint: %w", err)
		}
		query := `
			UPDATE tournament_teams a SET seed = b.seed, updated_at = NOW()
			FROM tournament_teams b
			WHERE (a.id = $1 AND b.id = $2) OR (a.id = $2 AND b.id = $1)`
		result, err := tx.ExecContext(ctx, query, firstID, secondID)
		if err != nil {
			return handleTournamentTeamError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows: %w", err)
		}
		if affected != 2 {
			return ErrTournamentTeamNotFound
		}
		return nil
	})
}

func (r *postgresTournamentTeamRepository) ReplaceForTournament(ctx context.Context, tournamentID int, entries []models.TournamentTeam) error {
	return RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tournament_teams WHERE tournament_id = $1`, tournamentID); err != nil {
			return fmt.Errorf("failed to clear teams of tournament %d: %w", tournamentID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tournament_teams (tournament_id, team_id, seed, final_position, prize_money)
			VALUES ($1, $2, $3, $4, $5)`)
		if err != nil {
			return fmt.Errorf("failed to prepare tournament team insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, tournamentID, e.TeamID, e.Seed, e.FinalPosition, e.PrizeMoney); err != nil {
				return handleTournamentTeamError(err)
			}
		}
		return nil
	})
}

func handleTournamentTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "tournament_teams_tournament_id_seed_key" {
				return ErrSeedConflict
			}
			return ErrTeamAlreadyRegistered
		case pqForeignKeyViolation:
			return ErrTournamentTeamInvalid
		}
	}
	return err
}
