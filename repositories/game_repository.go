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
	ErrGameNotFound       = errors.New("game not found")
	ErrGameNumberConflict = errors.New("game number already exists for match")
	ErrGameInvalidRefs    = errors.New("game references an unknown match or team")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Game, error)
	ListByMatches(ctx context.Context, matchIDs []int) (map[int][]models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, match_id, game_number, team1_score, team2_score, winner_id, duration, patch_version, game_date, created_at`

func scanGame(s rowScanner, g *models.Game) error {
	return s.Scan(&g.ID, &g.MatchID, &g.GameNumber, &g.Team1Score, &g.Team2Score, &g.WinnerID,
		&g.Duration, &g.PatchVersion, &g.GameDate, &g.CreatedAt)
}

func (r *postgresGameRepository) Create(ctx context.Context, g *models.Game) error {
	query := `
		INSERT INTO games (match_id, game_number, team1_score, team2_score, winner_id, duration, patch_version, game_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, g.MatchID, g.GameNumber, g.Team1Score, g.Team2Score,
		g.WinnerID, g.Duration, g.PatchVersion, g.GameDate).Scan(&g.ID, &g.CreatedAt)
	return handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	var g models.Game
	if err := scanGame(r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id), &g); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Game, error) {
	byMatch, err := r.ListByMatches(ctx, []int{matchID})
	if err != nil {
		return nil, err
	}
	games := byMatch[matchID]
	if games == nil {
		games = make([]models.Game, 0)
	}
	return games, nil
}

func (r *postgresGameRepository) ListByMatches(ctx context.Context, matchIDs []int) (map[int][]models.Game, error) {
	result := make(map[int][]models.Game, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}
	ids := make([]int64, len(matchIDs))
	for i, id := range matchIDs {
		ids[i] = int64(id)
	}

	query := `SELECT ` + gameColumns + ` FROM games WHERE match_id = ANY($1) ORDER BY match_id, game_number`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Game
		if err := scanGame(rows, &g); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		result[g.MatchID] = append(result[g.MatchID], g)
	}
	return result, rows.Err()
}

func (r *postgresGameRepository) Update(ctx context.Context, g *models.Game) error {
	query := `
		UPDATE games SET
			game_number = $1,
			team1_score = $2,
			team2_score = $3,
			winner_id = $4,
			duration = $5,
			patch_version = $6,
			game_date = $7
		WHERE id = $8
		RETURNING match_id, created_at`
	err := r.db.QueryRowContext(ctx, query, g.GameNumber, g.Team1Score, g.Team2Score, g.WinnerID,
		g.Duration, g.PatchVersion, g.GameDate, g.ID).Scan(&g.MatchID, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGameNotFound
	}
	return handleGameError(err)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrGameNumberConflict
		case pqForeignKeyViolation:
			return ErrGameInvalidRefs
		}
	}
	return err
}
