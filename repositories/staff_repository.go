package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrStaffNotFound      = errors.New("staff user not found")
	ErrStaffEmailConflict = errors.New("staff email conflict")
)

type StaffRepository interface {
	Create(ctx context.Context, user *models.StaffUser) error
	GetByID(ctx context.Context, id int) (*models.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
}

type postgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) StaffRepository {
	return &postgresStaffRepository{db: db}
}

func (r *postgresStaffRepository) Create(ctx context.Context, user *models.StaffUser) error {
	query := `
		INSERT INTO staff_users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, strings.ToLower(user.Email), user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch pqErr.Code {
			case pqUniqueViolation:
				return ErrStaffEmailConflict
			case pqCheckViolation:
				return ErrInvalidValue
			}
		}
		return err
	}
	return nil
}

func (r *postgresStaffRepository) GetByID(ctx context.Context, id int) (*models.StaffUser, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM staff_users WHERE id = $1`, id)
}

func (r *postgresStaffRepository) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM staff_users WHERE email = $1`, strings.ToLower(email))
}

func (r *postgresStaffRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.StaffUser, error) {
	var u models.StaffUser
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &u, nil
}
