package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

type StatisticInput struct {
	TeamID       *int       `json:"team_id"`
	TournamentID *int       `json:"tournament_id"`
	MatchID      *int       `json:"match_id"`
	StatType     *string    `json:"stat_type"`
	StatValue    *float64   `json:"stat_value"`
	StatDate     *time.Time `json:"stat_date"`
}

type StatisticsService interface {
	Report(ctx context.Context, teamID *int) (*models.StatisticsReport, error)
	ListStatistics(ctx context.Context, filter repositories.ListStatisticsFilter) ([]models.Statistic, error)
	CreateStatistic(ctx context.Context, input StatisticInput) (*models.Statistic, error)
	UpdateStatistic(ctx context.Context, id int, input StatisticInput) (*models.Statistic, error)
	DeleteStatistic(ctx context.Context, id int) error
}

type statisticsService struct {
	statRepo  repositories.StatisticRepository
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	deps      Deps
}

func NewStatisticsService(statRepo repositories.StatisticRepository, teamRepo repositories.TeamRepository, matchRepo repositories.MatchRepository, deps Deps) StatisticsService {
	return &statisticsService{
		statRepo:  statRepo,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		deps:      deps,
	}
}

// Report собирает страницу статистики. Сводка всегда считается по всем
// строкам, фильтр по команде сужает только список строк.
func (s *statisticsService) Report(ctx context.Context, teamID *int) (*models.StatisticsReport, error) {
	return cached(ctx, s.deps, cacheKey(cacheStatistics+"report:", teamID), func(ctx context.Context) (*models.StatisticsReport, error) {
		var (
			stats   []models.Statistic
			teams   []models.Team
			matches []models.Match
		)
		completed := models.MatchCompleted

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stats, err = s.statRepo.List(gctx, repositories.ListStatisticsFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			teams, err = s.teamRepo.List(gctx, repositories.ListTeamsFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			matches, err = s.matchRepo.List(gctx, repositories.ListMatchesFilter{Status: &completed})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to load statistics: %w", err)
		}

		return buildStatisticsReport(stats, teams, matches, teamID), nil
	})
}

// buildStatisticsReport ожидает строки отсортированными от новых к старым:
// для команды берётся первое встретившееся значение каждого типа.
func buildStatisticsReport(stats []models.Statistic, teams []models.Team, matches []models.Match, teamID *int) *models.StatisticsReport {
	report := &models.StatisticsReport{
		Summary:    models.StatisticsSummary{TotalTeams: len(teams)},
		TeamStats:  make([]models.TeamStatistics, 0, len(teams)),
		Statistics: make([]models.Statistic, 0, len(stats)),
	}

	var winRateSum float64
	var winRateCount int
	latest := make(map[int]map[string]float64)
	for _, st := range stats {
		switch st.StatType {
		case models.StatTournamentCount:
			report.Summary.TotalTournaments++
		case models.StatMatchCount:
			report.Summary.TotalMatches++
		case models.StatWinRate:
			if st.StatValue != 0 {
				winRateSum += st.StatValue
				winRateCount++
			}
		}

		if st.TeamID != nil {
			byType, ok := latest[*st.TeamID]
			if !ok {
				byType = make(map[string]float64)
				latest[*st.TeamID] = byType
			}
			if _, seen := byType[st.StatType]; !seen {
				byType[st.StatType] = st.StatValue
			}
		}

		if teamID == nil || (st.TeamID != nil && *st.TeamID == *teamID) {
			report.Statistics = append(report.Statistics, st)
		}
	}
	if winRateCount > 0 {
		report.Summary.AverageWinRate = winRateSum / float64(winRateCount)
	}

	for _, t := range teams {
		byType := latest[t.ID]
		report.TeamStats = append(report.TeamStats, models.TeamStatistics{
			Team:       t,
			WinRate:    byType[models.StatWinRate],
			MatchCount: byType[models.StatMatchCount],
			TotalWins:  byType[models.StatTotalWins],
		})
	}

	report.Matrix = brackets.BuildMatchupMatrix(teams, matches)
	return report
}

func (s *statisticsService) ListStatistics(ctx context.Context, filter repositories.ListStatisticsFilter) ([]models.Statistic, error) {
	stats, err := s.statRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list statistics: %w", err)
	}
	return stats, nil
}

func (s *statisticsService) CreateStatistic(ctx context.Context, input StatisticInput) (*models.Statistic, error) {
	if input.StatType == nil || input.StatValue == nil {
		return nil, validationError("stat_type and stat_value are required")
	}
	st := &models.Statistic{}
	applyStatisticInput(st, input)
	if err := validateStatistic(st); err != nil {
		return nil, err
	}
	if err := s.statRepo.Create(ctx, st); err != nil {
		return nil, mapStatisticError(err, "create statistic")
	}
	s.afterWrite(ctx, brackets.EventEntityCreated, st.ID)
	return st, nil
}

func (s *statisticsService) UpdateStatistic(ctx context.Context, id int, input StatisticInput) (*models.Statistic, error) {
	st, err := s.statRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStatisticError(err, "get statistic")
	}
	applyStatisticInput(st, input)
	if err := validateStatistic(st); err != nil {
		return nil, err
	}
	if err := s.statRepo.Update(ctx, st); err != nil {
		return nil, mapStatisticError(err, "update statistic")
	}
	s.afterWrite(ctx, brackets.EventEntityUpdated, st.ID)
	return st, nil
}

func (s *statisticsService) DeleteStatistic(ctx context.Context, id int) error {
	if err := s.statRepo.Delete(ctx, id); err != nil {
		return mapStatisticError(err, "delete statistic")
	}
	s.afterWrite(ctx, brackets.EventEntityDeleted, id)
	return nil
}

func (s *statisticsService) afterWrite(ctx context.Context, eventType string, id int) {
	s.deps.invalidate(ctx, cacheStatistics)
	s.deps.publish(brackets.RoomStatistics, eventType, EntityEvent{Entity: "statistic", ID: id})
}

func applyStatisticInput(st *models.Statistic, in StatisticInput) {
	if in.TeamID != nil {
		st.TeamID = in.TeamID
	}
	if in.TournamentID != nil {
		st.TournamentID = in.TournamentID
	}
	if in.MatchID != nil {
		st.MatchID = in.MatchID
	}
	if in.StatType != nil {
		st.StatType = strings.TrimSpace(*in.StatType)
	}
	if in.StatValue != nil {
		st.StatValue = *in.StatValue
	}
	if in.StatDate != nil {
		st.StatDate = *in.StatDate
	}
}

func validateStatistic(st *models.Statistic) error {
	if st.StatType == "" {
		return validationError("stat_type is required")
	}
	if st.StatType == models.StatWinRate && (st.StatValue < 0 || st.StatValue > 100) {
		return validationError("win_rate must be between 0 and 100")
	}
	return nil
}

func mapStatisticError(err error, op string) error {
	switch {
	case errors.Is(err, repositories.ErrStatisticNotFound):
		return ErrStatisticNotFound
	case errors.Is(err, repositories.ErrStatisticInvalidRefs):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
