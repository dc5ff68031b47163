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
	ErrHeroNotFound     = errors.New("hero not found")
	ErrHeroNameConflict = errors.New("hero name already exists")
)

type HeroRepository interface {
	Create(ctx context.Context, hero *models.Hero) error
	GetByID(ctx context.Context, id int) (*models.Hero, error)
	List(ctx context.Context, role *string) ([]models.Hero, error)
	Update(ctx context.Context, hero *models.Hero) error
	UpdateImage(ctx context.Context, id int, img *string) error
	Delete(ctx context.Context, id int) error
}

type sqlxHeroRepository struct {
	db *sqlx.DB
}

func NewSqlxHeroRepository(db *sqlx.DB) HeroRepository {
	return &sqlxHeroRepository{db: db}
}

const heroColumns = `id, hero_name, hero_img, hero_role, created_at, updated_at`

func (r *sqlxHeroRepository) Create(ctx context.Context, h *models.Hero) error {
	query := `INSERT INTO heroes (hero_name, hero_img, hero_role) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, h.HeroName, h.HeroImg, h.HeroRole).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	return handleHeroError(err)
}

func (r *sqlxHeroRepository) GetByID(ctx context.Context, id int) (*models.Hero, error) {
	var h models.Hero
	if err := r.db.GetContext(ctx, &h, `SELECT `+heroColumns+` FROM heroes WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *sqlxHeroRepository) List(ctx context.Context, role *string) ([]models.Hero, error) {
	heroes := make([]models.Hero, 0)
	var err error
	if role != nil {
		err = r.db.SelectContext(ctx, &heroes, `SELECT `+heroColumns+` FROM heroes WHERE hero_role = $1 ORDER BY hero_name`, *role)
	} else {
		err = r.db.SelectContext(ctx, &heroes, `SELECT `+heroColumns+` FROM heroes ORDER BY hero_name`)
	}
	if err != nil {
		return nil, err
	}
	return heroes, nil
}

func (r *sqlxHeroRepository) Update(ctx context.Context, h *models.Hero) error {
	query := `UPDATE heroes SET hero_name = $1, hero_role = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, h.HeroName, h.HeroRole, h.ID).Scan(&h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHeroNotFound
	}
	return handleHeroError(err)
}

func (r *sqlxHeroRepository) UpdateImage(ctx context.Context, id int, img *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE heroes SET hero_img = $1, updated_at = NOW() WHERE id = $2`, img, id)
	if err != nil {
		return fmt.Errorf("failed to update hero image: %w", err)
	}
	return checkAffectedRows(result, ErrHeroNotFound)
}

func (r *sqlxHeroRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM heroes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrHeroNotFound)
}

func handleHeroError(err error) error {
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
		return ErrHeroNameConflict
	}
	return err
}
