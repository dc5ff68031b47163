package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrStatisticNotFound    = errors.New("statistic not found")
	ErrStatisticInvalidRefs = errors.New("statistic references an unknown team, tournament or match")
)

type ListStatisticsFilter struct {
	TeamID       *int
	TournamentID *int
	StatType     *string
}

type StatisticRepository interface {
	Create(ctx context.Context, stat *models.Statistic) error
	GetByID(ctx context.Context, id int) (*models.Statistic, error)
	List(ctx context.Context, filter ListStatisticsFilter) ([]models.Statistic, error)
	Update(ctx context.Context, stat *models.Statistic) error
	Delete(ctx context.Context, id int) error
}

type postgresStatisticRepository struct {
	db *sql.DB
}

func NewPostgresStatisticRepository(db *sql.DB) StatisticRepository {
	return &postgresStatisticRepository{db: db}
}

const statisticColumns = `id, team_id, tournament_id, match_id, stat_type, stat_value, stat_date`

func scanStatistic(s rowScanner, st *models.Statistic) error {
	return s.Scan(&st.ID, &st.TeamID, &st.TournamentID, &st.MatchID, &st.StatType, &st.StatValue, &st.StatDate)
}

func (r *postgresStatisticRepository) Create(ctx context.Context, st *models.Statistic) error {
	query := `
		INSERT INTO statistics (team_id, tournament_id, match_id, stat_type, stat_value, stat_date)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, NOW()))
		RETURNING id, stat_date`
	var date interface{}
	if !st.StatDate.IsZero() {
		date = st.StatDate
	}
	err := r.db.QueryRowContext(ctx, query, st.TeamID, st.TournamentID, st.MatchID, st.StatType, st.StatValue, date).
		Scan(&st.ID, &st.StatDate)
	return handleStatisticError(err)
}

func (r *postgresStatisticRepository) GetByID(ctx context.Context, id int) (*models.Statistic, error) {
	var st models.Statistic
	if err := scanStatistic(r.db.QueryRowContext(ctx, `SELECT `+statisticColumns+` FROM statistics WHERE id = $1`, id), &st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatisticNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *postgresStatisticRepository) List(ctx context.Context, filter ListStatisticsFilter) ([]models.Statistic, error) {
	query := `SELECT ` + statisticColumns + ` FROM statistics WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND team_id = $%d", argID)
		args = append(args, *filter.TeamID)
		argID++
	}
	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.StatType != nil {
		query += fmt.Sprintf(" AND stat_type = $%d", argID)
		args = append(args, *filter.StatType)
	}
	query += " ORDER BY stat_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list statistics: %w", err)
	}
	defer rows.Close()

	stats := make([]models.Statistic, 0)
	for rows.Next() {
		var st models.Statistic
		if err := scanStatistic(rows, &st); err != nil {
			return nil, fmt.Errorf("failed to scan statistic: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (r *postgresStatisticRepository) Update(ctx context.Context, st *models.Statistic) error {
	query := `
		UPDATE statistics SET team_id = $1, tournament_id = $2, match_id = $3, stat_type = $4, stat_value = $5
		WHERE id = $6
		RETURNING stat_date`
	err := r.db.QueryRowContext(ctx, query, st.TeamID, st.TournamentID, st.MatchID, st.StatType, st.StatValue, st.ID).
		Scan(&st.StatDate)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStatisticNotFound
	}
	return handleStatisticError(err)
}

func (r *postgresStatisticRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM statistics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete statistic %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrStatisticNotFound)
}

func handleStatisticError(err error) error {
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
		return ErrStatisticInvalidRefs
	}
	return err
}
