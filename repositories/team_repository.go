package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamCodeConflict = errors.New("team code already in use")
	ErrTeamInUse        = errors.New("team is in use (matches reference it)")
)

type ListTeamsFilter struct {
	Region *string
	Query  *string
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByCode(ctx context.Context, code string) (*models.Team, error)
	List(ctx context.Context, filter ListTeamsFilter) ([]models.Team, error)
	ListRegions(ctx context.Context) ([]string, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateLogo(ctx context.Context, id int, logo *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, team_name, team_code, logo, region, created_at, updated_at`

func scanTeam(s rowScanner, t *models.Team) error {
	return s.Scan(&t.ID, &t.TeamName, &t.TeamCode, &t.Logo, &t.Region, &t.CreatedAt, &t.UpdatedAt)
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (team_name, team_code, logo, region)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, team.TeamName, team.TeamCode, team.Logo, team.Region).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	var team models.Team
	if err := scanTeam(r.db.QueryRowContext(ctx, query, id), &team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) GetByCode(ctx context.Context, code string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE team_code = $1`

	var team models.Team
	if err := scanTeam(r.db.QueryRowContext(ctx, query, code), &team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter ListTeamsFilter) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Region != nil {
		query += fmt.Sprintf(" AND region = $%d", argID)
		args = append(args, *filter.Region)
		argID++
	}
	if filter.Query != nil {
		query += fmt.Sprintf(" AND (team_name ILIKE $%d OR team_code ILIKE $%d)", argID, argID)
		args = append(args, "%"+*filter.Query+"%")
	}
	query += " ORDER BY team_name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := scanTeam(rows, &t); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListRegions(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT region FROM teams WHERE region IS NOT NULL AND region <> '' ORDER BY region`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]string, 0)
	for rows.Next() {
		var region string
		if err := rows.Scan(&region); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			team_name = $1,
			team_code = $2,
			region = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, team.TeamName, team.TeamCode, team.Region, team.ID).Scan(&team.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTeamNotFound
	}
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) UpdateLogo(ctx context.Context, id int, logo *string) error {
	query := `UPDATE teams SET logo = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logo, id)
	if err != nil {
		return fmt.Errorf("failed to update team logo: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// Delete удаляет команду. Регистрации в турнирах уходят каскадом,
// а ссылки из matches (RESTRICT) дают ErrTeamInUse.
func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == "teams_team_code_key" {
				return ErrTeamCodeConflict
			}
		case pqForeignKeyViolation:
			return ErrTeamInUse
		case pqCheckViolation:
			return ErrInvalidValue
		}
	}
	return err
}
