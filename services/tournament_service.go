package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"golang.org/x/sync/errgroup"
)

// Сколько турниров одновременно дозагружают ближайший/последний матч.
const tournamentFanOut = 8

type TournamentService interface {
	ListTournaments(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	GetTournamentDetails(ctx context.Context, id int) (*models.TournamentDetails, error)
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
}

type CreateTournamentInput struct {
	Name           string                   `json:"name"`
	Description    *string                  `json:"description"`
	StartDate      time.Time                `json:"start_date"`
	EndDate        time.Time                `json:"end_date"`
	PrizePool      *float64                 `json:"prize_pool"`
	EntryFee       *float64                 `json:"entry_fee"`
	MaxTeams       *int                     `json:"max_teams"`
	MinTeams       *int                     `json:"min_teams"`
	Status         *models.TournamentStatus `json:"status"`
	TournamentType *string                  `json:"tournament_type"`
	Logo           *string                  `json:"logo"`
	Banner         *string                  `json:"banner"`
}

type UpdateTournamentInput struct {
	Name           *string                  `json:"name"`
	Description    *string                  `json:"description"`
	StartDate      *time.Time               `json:"start_date"`
	EndDate        *time.Time               `json:"end_date"`
	PrizePool      *float64                 `json:"prize_pool"`
	EntryFee       *float64                 `json:"entry_fee"`
	MaxTeams       *int                     `json:"max_teams"`
	MinTeams       *int                     `json:"min_teams"`
	Status         *models.TournamentStatus `json:"status"`
	TournamentType *string                  `json:"tournament_type"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	stageRepo      repositories.StageRepository
	teamsRepo      repositories.TournamentTeamRepository
	matchRepo      repositories.MatchRepository
	deps           Deps
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	teamsRepo repositories.TournamentTeamRepository,
	matchRepo repositories.MatchRepository,
	deps Deps,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		stageRepo:      stageRepo,
		teamsRepo:      teamsRepo,
		matchRepo:      matchRepo,
		deps:           deps,
	}
}

// ListTournaments отдаёт турниры со своими этапами; идущим турнирам
// добавляется ближайший матч, а завершённым последний сыгранный.
func (s *tournamentService) ListTournaments(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, validationError("unknown tournament status %q", *status)
	}
	var statusKey *string
	if status != nil {
		v := string(*status)
		statusKey = &v
	}
	return cached(ctx, s.deps, cacheKey(cacheTournaments+"list:", statusKey), func(ctx context.Context) ([]models.Tournament, error) {
		return s.loadTournaments(ctx, status)
	})
}

func (s *tournamentService) loadTournaments(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if len(tournaments) == 0 {
		return tournaments, nil
	}

	ids := make([]int, len(tournaments))
	for i := range tournaments {
		ids[i] = tournaments[i].ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tournamentFanOut)

	var stagesByTournament map[int][]models.TournamentStage
	g.Go(func() error {
		var err error
		stagesByTournament, err = s.stageRepo.ListByTournaments(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to list stages: %w", err)
		}
		return nil
	})

	for i := range tournaments {
		t := &tournaments[i]
		switch t.Status {
		case models.StatusOngoing:
			g.Go(func() error {
				m, err := optionalMatch(s.matchRepo.NextScheduled(gctx, t.ID))
				if err != nil {
					return fmt.Errorf("failed to get next match of tournament %d: %w", t.ID, err)
				}
				t.UpcomingMatch = m
				return nil
			})
		case models.StatusCompleted:
			g.Go(func() error {
				m, err := optionalMatch(s.matchRepo.LastCompleted(gctx, t.ID))
				if err != nil {
					return fmt.Errorf("failed to get last match of tournament %d: %w", t.ID, err)
				}
				t.LastMatch = m
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range tournaments {
		tournaments[i].Stages = stagesByTournament[tournaments[i].ID]
	}
	return tournaments, nil
}

func optionalMatch(m *models.Match, err error) (*models.Match, error) {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, nil
	}
	return m, err
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}
	return t, nil
}

func (s *tournamentService) GetTournamentDetails(ctx context.Context, id int) (*models.TournamentDetails, error) {
	return cached(ctx, s.deps, cacheKey(cacheTournaments+"details:", id), func(ctx context.Context) (*models.TournamentDetails, error) {
		t, err := s.tournamentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, mapTournamentRepoError(err, "get tournament")
		}

		details := &models.TournamentDetails{Tournament: t}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			teams, err := s.teamsRepo.ListByTournament(gctx, id)
			if err != nil {
				return err
			}
			details.Teams = teams
			return nil
		})
		g.Go(func() error {
			matches, err := s.matchRepo.List(gctx, repositories.ListMatchesFilter{TournamentID: &id})
			if err != nil {
				return err
			}
			details.Matches = matches
			return nil
		})
		g.Go(func() error {
			stages, err := s.stageRepo.ListByTournament(gctx, id)
			if err != nil {
				return err
			}
			details.Stages = stages
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to load tournament %d details: %w", id, err)
		}
		t.Stages = details.Stages
		return details, nil
	})
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	t := &models.Tournament{
		Name:           strings.TrimSpace(input.Name),
		Description:    trimOptional(input.Description),
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		PrizePool:      input.PrizePool,
		EntryFee:       input.EntryFee,
		MaxTeams:       input.MaxTeams,
		MinTeams:       input.MinTeams,
		Status:         models.StatusUpcoming,
		TournamentType: string(formats.SingleElimination),
		Logo:           trimOptional(input.Logo),
		Banner:         trimOptional(input.Banner),
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.TournamentType != nil {
		t.TournamentType = strings.TrimSpace(*input.TournamentType)
	}
	if err := validateTournament(t); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err, "create tournament")
	}
	s.afterWrite(ctx, brackets.EventEntityCreated, t.ID)
	return t, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}

	if input.Name != nil {
		t.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		t.Description = trimOptional(input.Description)
	}
	if input.StartDate != nil {
		t.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = *input.EndDate
	}
	if input.PrizePool != nil {
		t.PrizePool = input.PrizePool
	}
	if input.EntryFee != nil {
		t.EntryFee = input.EntryFee
	}
	if input.MaxTeams != nil {
		t.MaxTeams = input.MaxTeams
	}
	if input.MinTeams != nil {
		t.MinTeams = input.MinTeams
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.TournamentType != nil {
		t.TournamentType = strings.TrimSpace(*input.TournamentType)
	}
	if err := validateTournament(t); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, mapTournamentRepoError(err, "update tournament")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, t.ID)
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return mapTournamentRepoError(err, "delete tournament")
	}
	s.afterWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *tournamentService) afterWrite(ctx context.Context, eventType string, id int) {
	s.deps.invalidate(ctx, cacheTournaments, cacheMatches, cacheStatistics)
	payload := EntityEvent{Entity: "tournament", ID: id}
	s.deps.publish(brackets.RoomTournaments, eventType, payload)
	s.deps.publish(tournamentRoom(id), eventType, payload)
}

func validateTournament(t *models.Tournament) error {
	switch {
	case t.Name == "":
		return validationError("name is required")
	case t.StartDate.IsZero() || t.EndDate.IsZero():
		return validationError("start_date and end_date are required")
	case t.EndDate.Before(t.StartDate):
		return validationError("end_date must not be before start_date")
	case !t.Status.Valid():
		return validationError("unknown tournament status %q", t.Status)
	case !formats.FormatType(t.TournamentType).Valid():
		return validationError("unknown tournament_type %q", t.TournamentType)
	}
	if t.MaxTeams != nil && *t.MaxTeams < 2 {
		return validationError("max_teams must be at least 2")
	}
	if t.MinTeams != nil && *t.MinTeams < 2 {
		return validationError("min_teams must be at least 2")
	}
	if t.MaxTeams != nil && t.MinTeams != nil && *t.MinTeams > *t.MaxTeams {
		return validationError("min_teams must not exceed max_teams")
	}
	if t.PrizePool != nil && *t.PrizePool < 0 {
		return validationError("prize_pool must not be negative")
	}
	if t.EntryFee != nil && *t.EntryFee < 0 {
		return validationError("entry_fee must not be negative")
	}
	return nil
}

func mapTournamentRepoError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
