package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

type PlayerService interface {
	ListPlayers(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error)
	FilterOptions(ctx context.Context) (*models.PlayerFilterOptions, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	RealName    string               `json:"real_name"`
	InGameName  string               `json:"in_game_name"`
	TeamCode    *string              `json:"team_code"`
	PlayerPhoto *string              `json:"player_photo"`
	Role        string               `json:"role"`
	Status      *models.PlayerStatus `json:"status"`
}

type UpdatePlayerInput struct {
	RealName   *string              `json:"real_name"`
	InGameName *string              `json:"in_game_name"`
	TeamCode   *string              `json:"team_code"`
	Role       *string              `json:"role"`
	Status     *models.PlayerStatus `json:"status"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	deps       Deps
}

func NewPlayerService(playerRepo repositories.PlayerRepository, deps Deps) PlayerService {
	return &playerService{playerRepo: playerRepo, deps: deps}
}

func (s *playerService) ListPlayers(ctx context.Context, filter repositories.ListPlayersFilter) ([]models.Player, error) {
	filter.Role = trimOptional(filter.Role)
	filter.TeamCode = trimOptional(filter.TeamCode)
	filter.Query = trimOptional(filter.Query)
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, validationError("unknown player status %q", *filter.Status)
	}

	var status *string
	if filter.Status != nil {
		v := string(*filter.Status)
		status = &v
	}
	key := cacheKey(cachePlayers+"list:", filter.Role, filter.TeamCode, status, filter.Query)
	return cached(ctx, s.deps, key, func(ctx context.Context) ([]models.Player, error) {
		players, err := s.playerRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list players: %w", err)
		}
		return players, nil
	})
}

func (s *playerService) FilterOptions(ctx context.Context) (*models.PlayerFilterOptions, error) {
	return cached(ctx, s.deps, cachePlayers+"filters", func(ctx context.Context) (*models.PlayerFilterOptions, error) {
		opts, err := s.playerRepo.FilterOptions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load player filter options: %w", err)
		}
		return opts, nil
	})
}

func (s *playerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerRepoError(err, "get player")
	}
	return player, nil
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	player := &models.Player{
		RealName:    strings.TrimSpace(input.RealName),
		InGameName:  strings.TrimSpace(input.InGameName),
		TeamCode:    upperOptional(input.TeamCode),
		PlayerPhoto: trimOptional(input.PlayerPhoto),
		Role:        strings.TrimSpace(input.Role),
		Status:      models.PlayerActive,
	}
	if input.Status != nil {
		player.Status = *input.Status
	}
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, mapPlayerRepoError(err, "create player")
	}
	s.afterWrite(ctx, brackets.EventEntityCreated, player.ID)
	return player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPlayerRepoError(err, "get player")
	}

	if input.RealName != nil {
		player.RealName = strings.TrimSpace(*input.RealName)
	}
	if input.InGameName != nil {
		player.InGameName = strings.TrimSpace(*input.InGameName)
	}
	if input.TeamCode != nil {
		// Пустая строка снимает игрока с команды.
		player.TeamCode = upperOptional(input.TeamCode)
	}
	if input.Role != nil {
		player.Role = strings.TrimSpace(*input.Role)
	}
	if input.Status != nil {
		player.Status = *input.Status
	}
	if err := validatePlayer(player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, mapPlayerRepoError(err, "update player")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, player.ID)
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return mapPlayerRepoError(err, "delete player")
	}
	s.afterWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *playerService) afterWrite(ctx context.Context, eventType string, id int) {
	s.deps.invalidate(ctx, cachePlayers, cacheTeams)
	s.deps.publish(brackets.RoomPlayers, eventType, EntityEvent{Entity: "player", ID: id})
}

func validatePlayer(p *models.Player) error {
	switch {
	case p.RealName == "":
		return validationError("real_name is required")
	case p.InGameName == "":
		return validationError("in_game_name is required")
	case p.Role == "":
		return validationError("role is required")
	case !p.Status.Valid():
		return validationError("status must be active or inactive")
	}
	return nil
}

func upperOptional(s *string) *string {
	v := trimOptional(s)
	if v == nil {
		return nil
	}
	up := strings.ToUpper(*v)
	return &up
}

func mapPlayerRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerInvalidTeam):
		return validationError("team_code does not match any team")
	case errors.Is(err, repositories.ErrInvalidValue):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
