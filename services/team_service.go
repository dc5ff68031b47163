package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

var teamCodeRe = regexp.MustCompile(`^[A-Z0-9]{2,16}$`)

type TeamService interface {
	ListTeams(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error)
	ListRegions(ctx context.Context) ([]string, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type CreateTeamInput struct {
	TeamName string  `json:"team_name"`
	TeamCode string  `json:"team_code"`
	Logo     *string `json:"logo"`
	Region   *string `json:"region"`
}

type UpdateTeamInput struct {
	TeamName *string `json:"team_name"`
	TeamCode *string `json:"team_code"`
	Region   *string `json:"region"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	deps       Deps
}

func NewTeamService(teamRepo repositories.TeamRepository, playerRepo repositories.PlayerRepository, deps Deps) TeamService {
	return &teamService{teamRepo: teamRepo, playerRepo: playerRepo, deps: deps}
}

func normalizeTeamCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !teamCodeRe.MatchString(code) {
		return "", validationError("team_code must be 2-16 letters or digits")
	}
	return code, nil
}

func (s *teamService) ListTeams(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error) {
	filter.Region = trimOptional(filter.Region)
	filter.Query = trimOptional(filter.Query)
	key := cacheKey(cacheTeams+"list:", filter.Region, filter.Query)
	return cached(ctx, s.deps, key, func(ctx context.Context) ([]models.Team, error) {
		teams, err := s.teamRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams: %w", err)
		}
		return teams, nil
	})
}

func (s *teamService) ListRegions(ctx context.Context) ([]string, error) {
	return cached(ctx, s.deps, cacheTeams+"regions", func(ctx context.Context) ([]string, error) {
		regions, err := s.teamRepo.ListRegions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list team regions: %w", err)
		}
		return regions, nil
	})
}

// GetTeam возвращает команду вместе с её составом.
func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	return cached(ctx, s.deps, cacheKey(cacheTeams+"id:", id), func(ctx context.Context) (*models.Team, error) {
		team, err := s.teamRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team by id %d: %w", id, err)
		}
		code := team.TeamCode
		players, err := s.playerRepo.List(ctx, repositories.ListPlayersFilter{TeamCode: &code})
		if err != nil {
			return nil, fmt.Errorf("failed to list players of team %d: %w", id, err)
		}
		team.Players = players
		return team, nil
	})
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.TeamName)
	if name == "" {
		return nil, validationError("team_name is required")
	}
	code, err := normalizeTeamCode(input.TeamCode)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		TeamName: name,
		TeamCode: code,
		Logo:     trimOptional(input.Logo),
		Region:   trimOptional(input.Region),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, mapTeamRepoError(err, "create team")
	}

	s.afterWrite(ctx, brackets.EventEntityCreated, team.ID)
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err, "get team")
	}

	if input.TeamName != nil {
		name := strings.TrimSpace(*input.TeamName)
		if name == "" {
			return nil, validationError("team_name cannot be empty")
		}
		team.TeamName = name
	}
	if input.TeamCode != nil {
		code, err := normalizeTeamCode(*input.TeamCode)
		if err != nil {
			return nil, err
		}
		team.TeamCode = code
	}
	if input.Region != nil {
		team.Region = trimOptional(input.Region)
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapTeamRepoError(err, "update team")
	}

	s.afterWrite(ctx, brackets.EventEntityUpdated, team.ID)
	return team, nil
}

// DeleteTeam удаляет команду; регистрации в турнирах уходят каскадом,
// а команду, на которую ссылаются матчи, удалить нельзя.
func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return mapTeamRepoError(err, "delete team")
	}
	s.afterWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *teamService) afterWrite(ctx context.Context, eventType string, id int) {
	// Название и код команды попадают в игроков, матчи и турниры.
	s.deps.invalidate(ctx, cacheTeams, cachePlayers, cacheMatches, cacheTournaments, cacheStatistics)
	s.deps.publish(brackets.RoomTeams, eventType, EntityEvent{Entity: "team", ID: id})
}

func mapTeamRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamCodeConflict):
		return ErrTeamCodeConflict
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamInUse
	case errors.Is(err, repositories.ErrInvalidValue):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
