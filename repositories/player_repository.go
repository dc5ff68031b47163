package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerInvalidTeam = errors.New("player references an unknown team code")
)

type ListPlayersFilter struct {
	Role     *string
	TeamCode *string
	Status   *models.PlayerStatus
	Query    *string
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, error)
	FilterOptions(ctx context.Context) (*models.PlayerFilterOptions, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhoto(ctx context.Context, id int, photo *string) error
	Delete(ctx context.Context, id int) error
}

// Справочные таблицы читаются через sqlx: структуры размечены db-тегами.
type sqlxPlayerRepository struct {
	db *sqlx.DB
}

func NewSqlxPlayerRepository(db *sqlx.DB) PlayerRepository {
	return &sqlxPlayerRepository{db: db}
}

const playerColumns = `id, real_name, in_game_name, team_code, player_photo, role, status, created_at, updated_at`

func (r *sqlxPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (real_name, in_game_name, team_code, player_photo, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, p.RealName, p.InGameName, p.TeamCode, p.PlayerPhoto, p.Role, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return handlePlayerError(err)
}

func (r *sqlxPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	var p models.Player
	err := r.db.GetContext(ctx, &p, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqlxPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Role != nil {
		query += fmt.Sprintf(" AND role = $%d", argID)
		args = append(args, *filter.Role)
		argID++
	}
	if filter.TeamCode != nil {
		query += fmt.Sprintf(" AND team_code = $%d", argID)
		args = append(args, *filter.TeamCode)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Query != nil {
		query += fmt.Sprintf(" AND (in_game_name ILIKE $%d OR real_name ILIKE $%d)", argID, argID)
		args = append(args, "%"+*filter.Query+"%")
	}
	query += " ORDER BY in_game_name ASC"

	players := make([]models.Player, 0)
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqlxPlayerRepository) FilterOptions(ctx context.Context) (*models.PlayerFilterOptions, error) {
	opts := &models.PlayerFilterOptions{Roles: []string{}, TeamCodes: []string{}}
	if err := r.db.SelectContext(ctx, &opts.Roles, `SELECT DISTINCT role FROM players ORDER BY role`); err != nil {
		return nil, fmt.Errorf("failed to list player roles: %w", err)
	}
	if err := r.db.SelectContext(ctx, &opts.TeamCodes,
		`SELECT DISTINCT team_code FROM players WHERE team_code IS NOT NULL ORDER BY team_code`); err != nil {
		return nil, fmt.Errorf("failed to list player team codes: %w", err)
	}
	return opts, nil
}

func (r *sqlxPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `
		UPDATE players SET
			real_name = $1,
			in_game_name = $2,
			team_code = $3,
			role = $4,
			status = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, p.RealName, p.InGameName, p.TeamCode, p.Role, p.Status, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlayerNotFound
	}
	return handlePlayerError(err)
}

func (r *sqlxPlayerRepository) UpdatePhoto(ctx context.Context, id int, photo *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET player_photo = $1, updated_at = NOW() WHERE id = $2`, photo, id)
	if err != nil {
		return fmt.Errorf("failed to update player photo: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *sqlxPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return ErrPlayerInvalidTeam
		case pqCheckViolation:
			return ErrInvalidValue
		}
	}
	return err
}
