package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

// MatchInput используется и для создания, и для частичного обновления матча.
type MatchInput struct {
	TournamentID *int                `json:"tournament_id"`
	StageID      *int                `json:"stage_id"`
	Team1ID      *int                `json:"team1_id"`
	Team2ID      *int                `json:"team2_id"`
	MatchDate    *time.Time          `json:"match_date"`
	MatchType    *models.MatchType   `json:"match_type"`
	Status       *models.MatchStatus `json:"status"`
	WinnerID     *int                `json:"winner_id"`
	Team1Score   *int                `json:"team1_score"`
	Team2Score   *int                `json:"team2_score"`
	Stage        *string             `json:"stage"`
	RoundNumber  *int                `json:"round_number"`
	MatchNumber  *int                `json:"match_number"`
	Venue        *string             `json:"venue"`
	StreamURL    *string             `json:"stream_url"`
}

type GameInput struct {
	GameNumber   *int       `json:"game_number"`
	Team1Score   *int       `json:"team1_score"`
	Team2Score   *int       `json:"team2_score"`
	WinnerID     *int       `json:"winner_id"`
	Duration     *int       `json:"duration"`
	PatchVersion *string    `json:"patch_version"`
	GameDate     *time.Time `json:"game_date"`
}

type MatchService interface {
	ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	CreateMatch(ctx context.Context, input MatchInput) (*models.Match, error)
	UpdateMatch(ctx context.Context, id int, input MatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, id int) error

	CreateGame(ctx context.Context, matchID int, input GameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, matchID, gameID int, input GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, matchID, gameID int) error
}

type matchService struct {
	matchRepo repositories.MatchRepository
	gameRepo  repositories.GameRepository
	stageRepo repositories.StageRepository
	deps      Deps
}

func NewMatchService(matchRepo repositories.MatchRepository, gameRepo repositories.GameRepository, stageRepo repositories.StageRepository, deps Deps) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		gameRepo:  gameRepo,
		stageRepo: stageRepo,
		deps:      deps,
	}
}

func (s *matchService) ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	status := ""
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, validationError("unknown match status %q", *filter.Status)
		}
		status = string(*filter.Status)
	}
	key := cacheKey(cacheMatches+"list:", status, filter.TournamentID, filter.StageID, filter.Limit)
	return cached(ctx, s.deps, key, func(ctx context.Context) ([]models.Match, error) {
		matches, err := s.matchRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list matches: %w", err)
		}
		return matches, nil
	})
}

// GetMatch возвращает матч вместе с его играми.
func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	return cached(ctx, s.deps, cacheKey(cacheMatches+"id:", id), func(ctx context.Context) (*models.Match, error) {
		match, err := s.matchRepo.GetByID(ctx, id)
		if err != nil {
			return nil, mapMatchRepoError(err, "get match")
		}
		games, err := s.gameRepo.ListByMatch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to list games of match %d: %w", id, err)
		}
		match.Games = games
		return match, nil
	})
}

func (s *matchService) CreateMatch(ctx context.Context, input MatchInput) (*models.Match, error) {
	if input.TournamentID == nil || *input.TournamentID <= 0 {
		return nil, validationError("tournament_id is required")
	}
	if input.MatchDate == nil {
		return nil, validationError("match_date is required")
	}
	match := &models.Match{
		TournamentID: *input.TournamentID,
		MatchType:    models.BestOf3,
		Status:       models.MatchScheduled,
		RoundNumber:  1,
		MatchNumber:  1,
	}
	applyMatchInput(match, input)

	if err := s.validateMatch(ctx, match); err != nil {
		return nil, err
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, mapMatchRepoError(err, "create match")
	}
	s.afterWrite(ctx, brackets.EventEntityCreated, match)
	return match, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, id int, input MatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapMatchRepoError(err, "get match")
	}
	previousTournament := match.TournamentID
	applyMatchInput(match, input)

	if err := s.validateMatch(ctx, match); err != nil {
		return nil, err
	}
	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, mapMatchRepoError(err, "update match")
	}
	if previousTournament != match.TournamentID {
		s.deps.publish(tournamentRoom(previousTournament), brackets.EventEntityUpdated, EntityEvent{Entity: "match", ID: match.ID})
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, match)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return mapMatchRepoError(err, "get match")
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return mapMatchRepoError(err, "delete match")
	}
	s.afterWrite(ctx, brackets.EventEntityDeleted, match)
	return nil
}

func (s *matchService) CreateGame(ctx context.Context, matchID int, input GameInput) (*models.Game, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err, "get match")
	}
	if input.GameNumber == nil {
		return nil, validationError("game_number is required")
	}
	game := &models.Game{MatchID: matchID}
	applyGameInput(game, input)
	if game.GameDate.IsZero() {
		game.GameDate = match.MatchDate
	}
	if err := validateGame(match, game); err != nil {
		return nil, err
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, mapGameRepoError(err, "create game")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, match)
	return game, nil
}

func (s *matchService) UpdateGame(ctx context.Context, matchID, gameID int, input GameInput) (*models.Game, error) {
	match, game, err := s.getGame(ctx, matchID, gameID)
	if err != nil {
		return nil, err
	}
	applyGameInput(game, input)
	if err := validateGame(match, game); err != nil {
		return nil, err
	}
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return nil, mapGameRepoError(err, "update game")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, match)
	return game, nil
}

func (s *matchService) DeleteGame(ctx context.Context, matchID, gameID int) error {
	match, _, err := s.getGame(ctx, matchID, gameID)
	if err != nil {
		return err
	}
	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		return mapGameRepoError(err, "delete game")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, match)
	return nil
}

func (s *matchService) getGame(ctx context.Context, matchID, gameID int) (*models.Match, *models.Game, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, mapMatchRepoError(err, "get match")
	}
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, nil, mapGameRepoError(err, "get game")
	}
	if game.MatchID != matchID {
		return nil, nil, ErrGameNotFound
	}
	return match, game, nil
}

func (s *matchService) validateMatch(ctx context.Context, m *models.Match) error {
	if !m.MatchType.Valid() {
		return validationError("unknown match_type %q", m.MatchType)
	}
	if !m.Status.Valid() {
		return validationError("unknown match status %q", m.Status)
	}
	if m.MatchDate.IsZero() {
		return validationError("match_date is required")
	}
	if m.Team1ID != nil && m.Team2ID != nil && *m.Team1ID == *m.Team2ID {
		return validationError("a team cannot play against itself")
	}
	if m.WinnerID != nil && !isMatchTeam(m, *m.WinnerID) {
		return validationError("winner_id must be one of the match teams")
	}
	if m.Team1Score < 0 || m.Team2Score < 0 {
		return validationError("scores must not be negative")
	}
	if m.RoundNumber < 1 || m.MatchNumber < 1 {
		return validationError("round_number and match_number must be positive")
	}
	if m.StageID != nil {
		stage, err := s.stageRepo.GetByID(ctx, *m.StageID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageNotFound) {
				return validationError("stage %d does not exist", *m.StageID)
			}
			return fmt.Errorf("failed to get stage %d: %w", *m.StageID, err)
		}
		if stage.TournamentID != m.TournamentID {
			return validationError("stage %d belongs to another tournament", *m.StageID)
		}
	}
	return nil
}

func validateGame(match *models.Match, g *models.Game) error {
	switch {
	case g.GameNumber < 1:
		return validationError("game_number must be positive")
	case g.Team1Score < 0 || g.Team2Score < 0:
		return validationError("scores must not be negative")
	case g.Duration < 0:
		return validationError("duration must not be negative")
	case g.WinnerID != nil && !isMatchTeam(match, *g.WinnerID):
		return validationError("winner_id must be one of the match teams")
	}
	return nil
}

func isMatchTeam(m *models.Match, teamID int) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID)
}

func applyMatchInput(m *models.Match, in MatchInput) {
	if in.TournamentID != nil {
		m.TournamentID = *in.TournamentID
	}
	if in.StageID != nil {
		m.StageID = in.StageID
		if *in.StageID == 0 {
			m.StageID = nil
		}
	}
	if in.Team1ID != nil {
		m.Team1ID = in.Team1ID
	}
	if in.Team2ID != nil {
		m.Team2ID = in.Team2ID
	}
	if in.MatchDate != nil {
		m.MatchDate = *in.MatchDate
	}
	if in.MatchType != nil {
		m.MatchType = *in.MatchType
	}
	if in.Status != nil {
		m.Status = *in.Status
	}
	if in.WinnerID != nil {
		m.WinnerID = in.WinnerID
	}
	if in.Team1Score != nil {
		m.Team1Score = *in.Team1Score
	}
	if in.Team2Score != nil {
		m.Team2Score = *in.Team2Score
	}
	if in.Stage != nil {
		m.Stage = strings.TrimSpace(*in.Stage)
	}
	if in.RoundNumber != nil {
		m.RoundNumber = *in.RoundNumber
	}
	if in.MatchNumber != nil {
		m.MatchNumber = *in.MatchNumber
	}
	if in.Venue != nil {
		m.Venue = trimOptional(in.Venue)
	}
	if in.StreamURL != nil {
		m.StreamURL = trimOptional(in.StreamURL)
	}
}

func applyGameInput(g *models.Game, in GameInput) {
	if in.GameNumber != nil {
		g.GameNumber = *in.GameNumber
	}
	if in.Team1Score != nil {
		g.Team1Score = *in.Team1Score
	}
	if in.Team2Score != nil {
		g.Team2Score = *in.Team2Score
	}
	if in.WinnerID != nil {
		g.WinnerID = in.WinnerID
	}
	if in.Duration != nil {
		g.Duration = *in.Duration
	}
	if in.PatchVersion != nil {
		g.PatchVersion = trimOptional(in.PatchVersion)
	}
	if in.GameDate != nil {
		g.GameDate = *in.GameDate
	}
}

// afterWrite: от матчей зависят сетки, карточки турниров и матрица статистики.
func (s *matchService) afterWrite(ctx context.Context, eventType string, m *models.Match) {
	s.deps.invalidate(ctx, cacheMatches, cacheTournaments, cacheStatistics)
	payload := EntityEvent{Entity: "match", ID: m.ID}
	s.deps.publish(brackets.RoomMatches, eventType, payload)
	s.deps.publish(tournamentRoom(m.TournamentID), eventType, payload)
}

func mapMatchRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchInvalidRefs):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	case errors.Is(err, repositories.ErrMatchInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func mapGameRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrGameNumberConflict):
		return ErrGameNumberConflict
	case errors.Is(err, repositories.ErrGameInvalidRefs):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
