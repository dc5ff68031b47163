package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

type BracketService interface {
	RenderStage(ctx context.Context, tournamentID, stageID int) (*brackets.View, error)
}

type bracketService struct {
	stageRepo repositories.StageRepository
	teamsRepo repositories.TournamentTeamRepository
	matchRepo repositories.MatchRepository
	deps      Deps
}

func NewBracketService(stageRepo repositories.StageRepository, teamsRepo repositories.TournamentTeamRepository, matchRepo repositories.MatchRepository, deps Deps) BracketService {
	return &bracketService{
		stageRepo: stageRepo,
		teamsRepo: teamsRepo,
		matchRepo: matchRepo,
		deps:      deps,
	}
}

// RenderStage строит сетку или таблицу этапа по посеву и сыгранным матчам.
// Кэш делит префикс с турнирами, поэтому сбрасывается любой записью в турнир или матч.
func (s *bracketService) RenderStage(ctx context.Context, tournamentID, stageID int) (*brackets.View, error) {
	key := cacheKey(cacheTournaments+"bracket:", tournamentID, stageID)
	return cached(ctx, s.deps, key, func(ctx context.Context) (*brackets.View, error) {
		stage, err := s.stageRepo.GetByID(ctx, stageID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageNotFound) {
				return nil, ErrStageNotFound
			}
			return nil, fmt.Errorf("failed to get stage %d: %w", stageID, err)
		}
		if stage.TournamentID != tournamentID {
			return nil, ErrStageNotFound
		}

		renderer, err := brackets.RendererFor(stage.FormatType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		cfg := decodeStoredConfig(s.deps.logger(), stage)

		var (
			teams   []models.TournamentTeam
			matches []models.Match
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			teams, err = s.teamsRepo.ListByTournament(gctx, tournamentID)
			return err
		})
		g.Go(func() error {
			var err error
			matches, err = s.matchRepo.ListByStage(gctx, stageID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to load stage %d data: %w", stageID, err)
		}

		return renderer.Render(brackets.RenderParams{
			Stage:   stage,
			Config:  cfg,
			Teams:   teams,
			Matches: matches,
		})
	})
}
