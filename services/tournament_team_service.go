package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

type AddTournamentTeamInput struct {
	TeamID     int      `json:"team_id"`
	Seed       *int     `json:"seed"`
	PrizeMoney *float64 `json:"prize_money"`
}

type UpdateTournamentTeamInput struct {
	Seed          *int     `json:"seed"`
	FinalPosition *int     `json:"final_position"`
	PrizeMoney    *float64 `json:"prize_money"`
}

// SeedEntry: одна строка при сохранении посева целиком.
type SeedEntry struct {
	TeamID        int      `json:"team_id"`
	Seed          *int     `json:"seed"`
	FinalPosition *int     `json:"final_position"`
	PrizeMoney    *float64 `json:"prize_money"`
}

type TournamentTeamService interface {
	ListTeams(ctx context.Context, tournamentID int) ([]models.TournamentTeam, error)
	AddTeam(ctx context.Context, tournamentID int, input AddTournamentTeamInput) (*models.TournamentTeam, error)
	UpdateTeam(ctx context.Context, tournamentID, entryID int, input UpdateTournamentTeamInput) (*models.TournamentTeam, error)
	RemoveTeam(ctx context.Context, tournamentID, entryID int) error
	MoveTeam(ctx context.Context, tournamentID, entryID int, up bool) ([]models.TournamentTeam, error)
	SaveSeeding(ctx context.Context, tournamentID int, entries []SeedEntry) ([]models.TournamentTeam, error)
}

type tournamentTeamService struct {
	tournamentRepo repositories.TournamentRepository
	teamsRepo      repositories.TournamentTeamRepository
	deps           Deps
}

func NewTournamentTeamService(tournamentRepo repositories.TournamentRepository, teamsRepo repositories.TournamentTeamRepository, deps Deps) TournamentTeamService {
	return &tournamentTeamService{
		tournamentRepo: tournamentRepo,
		teamsRepo:      teamsRepo,
		deps:           deps,
	}
}

func (s *tournamentTeamService) ListTeams(ctx context.Context, tournamentID int) ([]models.TournamentTeam, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}
	teams, err := s.teamsRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}
	return teams, nil
}

// AddTeam регистрирует команду. Без явного посева команда встаёт последней.
func (s *tournamentTeamService) AddTeam(ctx context.Context, tournamentID int, input AddTournamentTeamInput) (*models.TournamentTeam, error) {
	if input.TeamID <= 0 {
		return nil, validationError("team_id is required")
	}
	if err := validateSeed(input.Seed); err != nil {
		return nil, err
	}
	current, err := s.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	entry := &models.TournamentTeam{
		TournamentID: tournamentID,
		TeamID:       input.TeamID,
		Seed:         input.Seed,
	}
	if input.PrizeMoney != nil {
		if *input.PrizeMoney < 0 {
			return nil, validationError("prize_money must not be negative")
		}
		entry.PrizeMoney = *input.PrizeMoney
	}
	if entry.Seed == nil {
		next := maxSeed(current) + 1
		entry.Seed = &next
	}

	if err := s.teamsRepo.Add(ctx, nil, entry); err != nil {
		return nil, mapTournamentTeamError(err, "add team to tournament")
	}
	s.afterWrite(ctx, tournamentID)
	return entry, nil
}

func (s *tournamentTeamService) UpdateTeam(ctx context.Context, tournamentID, entryID int, input UpdateTournamentTeamInput) (*models.TournamentTeam, error) {
	entry, err := s.getEntry(ctx, tournamentID, entryID)
	if err != nil {
		return nil, err
	}
	if err := validateSeed(input.Seed); err != nil {
		return nil, err
	}
	if input.Seed != nil {
		entry.Seed = input.Seed
	}
	if input.FinalPosition != nil {
		if *input.FinalPosition < 1 {
			return nil, validationError("final_position must be positive")
		}
		entry.FinalPosition = input.FinalPosition
	}
	if input.PrizeMoney != nil {
		if *input.PrizeMoney < 0 {
			return nil, validationError("prize_money must not be negative")
		}
		entry.PrizeMoney = *input.PrizeMoney
	}

	if err := s.teamsRepo.Update(ctx, entry); err != nil {
		return nil, mapTournamentTeamError(err, "update tournament team")
	}
	s.afterWrite(ctx, tournamentID)
	return entry, nil
}

func (s *tournamentTeamService) RemoveTeam(ctx context.Context, tournamentID, entryID int) error {
	if _, err := s.getEntry(ctx, tournamentID, entryID); err != nil {
		return err
	}
	if err := s.teamsRepo.Remove(ctx, entryID); err != nil {
		return mapTournamentTeamError(err, "remove tournament team")
	}
	s.afterWrite(ctx, tournamentID)
	return nil
}

// MoveTeam меняет команду местами с соседом по посеву. Если у кого-то из
// двух нет посева, весь список перенумеровывается по текущему порядку.
func (s *tournamentTeamService) MoveTeam(ctx context.Context, tournamentID, entryID int, up bool) ([]models.TournamentTeam, error) {
	teams, err := s.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range teams {
		if teams[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTournamentTeamNotFound
	}
	other := idx + 1
	if up {
		other = idx - 1
	}
	if other < 0 || other >= len(teams) {
		return teams, nil
	}

	a, b := teams[idx], teams[other]
	if a.Seed != nil && b.Seed != nil {
		if err := s.teamsRepo.SwapSeeds(ctx, a.ID, b.ID); err != nil {
			return nil, mapTournamentTeamError(err, "swap seeds")
		}
	} else {
		teams[idx], teams[other] = teams[other], teams[idx]
		for i := range teams {
			seed := i + 1
			teams[i].Seed = &seed
		}
		if err := s.teamsRepo.ReplaceForTournament(ctx, tournamentID, teams); err != nil {
			return nil, mapTournamentTeamError(err, "renumber seeds")
		}
	}
	s.afterWrite(ctx, tournamentID)
	return s.ListTeams(ctx, tournamentID)
}

// SaveSeeding заменяет список команд турнира одной транзакцией.
func (s *tournamentTeamService) SaveSeeding(ctx context.Context, tournamentID int, entries []SeedEntry) ([]models.TournamentTeam, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}

	seenTeams := make(map[int]struct{}, len(entries))
	seenSeeds := make(map[int]struct{}, len(entries))
	rows := make([]models.TournamentTeam, 0, len(entries))
	for i, e := range entries {
		if e.TeamID <= 0 {
			return nil, validationError("entry %d: team_id is required", i+1)
		}
		if _, dup := seenTeams[e.TeamID]; dup {
			return nil, ErrTeamAlreadyRegistered
		}
		seenTeams[e.TeamID] = struct{}{}
		if err := validateSeed(e.Seed); err != nil {
			return nil, err
		}
		if e.Seed != nil {
			if _, dup := seenSeeds[*e.Seed]; dup {
				return nil, ErrSeedConflict
			}
			seenSeeds[*e.Seed] = struct{}{}
		}
		row := models.TournamentTeam{
			TournamentID:  tournamentID,
			TeamID:        e.TeamID,
			Seed:          e.Seed,
			FinalPosition: e.FinalPosition,
		}
		if e.PrizeMoney != nil {
			row.PrizeMoney = *e.PrizeMoney
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return seedLess(rows[i].Seed, rows[j].Seed)
	})

	if err := s.teamsRepo.ReplaceForTournament(ctx, tournamentID, rows); err != nil {
		return nil, mapTournamentTeamError(err, "save seeding")
	}
	s.deps.logger().Info("tournament seeding saved",
		slog.Int("tournament_id", tournamentID),
		slog.Int("teams", len(rows)))
	s.afterWrite(ctx, tournamentID)
	return s.ListTeams(ctx, tournamentID)
}

func (s *tournamentTeamService) getEntry(ctx context.Context, tournamentID, entryID int) (*models.TournamentTeam, error) {
	entry, err := s.teamsRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, mapTournamentTeamError(err, "get tournament team")
	}
	if entry.TournamentID != tournamentID {
		return nil, ErrTournamentTeamNotFound
	}
	return entry, nil
}

func (s *tournamentTeamService) afterWrite(ctx context.Context, tournamentID int) {
	s.deps.invalidate(ctx, cacheTournaments, cacheStatistics)
	s.deps.publish(tournamentRoom(tournamentID), brackets.EventSeedsUpdated, map[string]interface{}{
		"tournament_id": tournamentID,
	})
}

func validateSeed(seed *int) error {
	if seed != nil && *seed < 1 {
		return validationError("seed must be positive")
	}
	return nil
}

func maxSeed(teams []models.TournamentTeam) int {
	m := 0
	for _, t := range teams {
		if t.Seed != nil && *t.Seed > m {
			m = *t.Seed
		}
	}
	return m
}

// seedLess: команды без посева идут в конце.
func seedLess(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return *a < *b
}

func mapTournamentTeamError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentTeamNotFound):
		return ErrTournamentTeamNotFound
	case errors.Is(err, repositories.ErrTeamAlreadyRegistered):
		return ErrTeamAlreadyRegistered
	case errors.Is(err, repositories.ErrSeedConflict):
		return ErrSeedConflict
	case errors.Is(err, repositories.ErrTournamentTeamInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
