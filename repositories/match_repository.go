package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arenarium/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchInvalidRefs = errors.New("match references an unknown tournament, stage or team")
	ErrMatchInvalid     = errors.New("match violates a constraint (status, type or score)")
)

type ListMatchesFilter struct {
	Status       *models.MatchStatus
	TournamentID *int
	StageID      *int
	Limit        int
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error)
	// ListByStage отдаёт матчи этапа по (round_number, match_number): вход рендерера сетки.
	ListByStage(ctx context.Context, stageID int) ([]models.Match, error)
	NextScheduled(ctx context.Context, tournamentID int) (*models.Match, error)
	LastCompleted(ctx context.Context, tournamentID int) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchSelect = `
	SELECT m.id, m.tournament_id, m.stage_id, m.team1_id, m.team2_id, m.match_date, m.match_type,
	       m.status, m.winner_id, m.team1_score, m.team2_score, m.stage, m.round_number,
	       m.match_number, m.venue, m.stream_url, m.created_at, m.updated_at,
	       t1.team_name, t2.team_name, tr.name
	FROM matches m
	LEFT JOIN teams t1 ON t1.id = m.team1_id
	LEFT JOIN teams t2 ON t2.id = m.team2_id
	LEFT JOIN tournaments tr ON tr.id = m.tournament_id`

func scanMatch(s rowScanner, m *models.Match) error {
	return s.Scan(
		&m.ID, &m.TournamentID, &m.StageID, &m.Team1ID, &m.Team2ID, &m.MatchDate, &m.MatchType,
		&m.Status, &m.WinnerID, &m.Team1Score, &m.Team2Score, &m.Stage, &m.RoundNumber,
		&m.MatchNumber, &m.Venue, &m.StreamURL, &m.CreatedAt, &m.UpdatedAt,
		&m.Team1Name, &m.Team2Name, &m.TournamentName,
	)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.Match, error) {
	var m models.Match
	if err := scanMatch(r.db.QueryRowContext(ctx, query, args...), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (
			tournament_id, stage_id, team1_id, team2_id, match_date, match_type, status,
			winner_id, team1_score, team2_score, stage, round_number, match_number, venue, stream_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TournamentID, m.StageID, m.Team1ID, m.Team2ID, m.MatchDate, m.MatchType, m.Status,
		m.WinnerID, m.Team1Score, m.Team2Score, m.Stage, m.RoundNumber, m.MatchNumber, m.Venue, m.StreamURL,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return r.queryOne(ctx, matchSelect+` WHERE m.id = $1`, id)
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, error) {
	query := matchSelect + ` WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND m.status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.TournamentID != nil {
		query += fmt.Sprintf(" AND m.tournament_id = $%d", argID)
		args = append(args, *filter.TournamentID)
		argID++
	}
	if filter.StageID != nil {
		query += fmt.Sprintf(" AND m.stage_id = $%d", argID)
		args = append(args, *filter.StageID)
		argID++
	}

	query += " ORDER BY m.match_date DESC, m.id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
	}

	matches, err := r.queryMatches(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, stageID int) ([]models.Match, error) {
	query := matchSelect + ` WHERE m.stage_id = $1 ORDER BY m.round_number, m.match_number, m.id`
	matches, err := r.queryMatches(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for stage %d: %w", stageID, err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) NextScheduled(ctx context.Context, tournamentID int) (*models.Match, error) {
	query := matchSelect + `
		WHERE m.tournament_id = $1 AND m.status = 'scheduled'
		ORDER BY m.match_date ASC, m.id ASC
		LIMIT 1`
	return r.queryOne(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) LastCompleted(ctx context.Context, tournamentID int) (*models.Match, error) {
	query := matchSelect + `
		WHERE m.tournament_id = $1 AND m.status = 'completed'
		ORDER BY m.match_date DESC, m.id DESC
		LIMIT 1`
	return r.queryOne(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) Update(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches SET
			tournament_id = $1,
			stage_id = $2,
			team1_id = $3,
			team2_id = $4,
			match_date = $5,
			match_type = $6,
			status = $7,
			winner_id = $8,
			team1_score = $9,
			team2_score = $10,
			stage = $11,
			round_number = $12,
			match_number = $13,
			venue = $14,
			stream_url = $15,
			updated_at = NOW()
		WHERE id = $16
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		m.TournamentID, m.StageID, m.Team1ID, m.Team2ID, m.MatchDate, m.MatchType, m.Status,
		m.WinnerID, m.Team1Score, m.Team2Score, m.Stage, m.RoundNumber, m.MatchNumber, m.Venue, m.StreamURL,
		m.ID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchNotFound
	}
	return handleMatchError(err)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return ErrMatchInvalidRefs
		case pqCheckViolation:
			return ErrMatchInvalid
		}
	}
	return err
}
