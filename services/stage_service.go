package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
)

// FormatDescriptor: тип формата и поля его конфигурации для редактора.
type FormatDescriptor struct {
	Type   formats.FormatType `json:"format_type"`
	Fields []formats.Field    `json:"fields"`
}

type PreviewStageInput struct {
	Stage              formats.StageDraft  `json:"stage"`
	FormatType         *formats.FormatType `json:"format_type"`
	TeamsCount         *int                `json:"teams_count"`
	PreserveRoundNames bool                `json:"preserve_round_names"`
}

type PreviewStageResult struct {
	Stage         formats.StageDraft `json:"stage"`
	VisibleFields []formats.Field    `json:"visible_fields"`
	Notices       []formats.Notice   `json:"notices"`
}

// StageAction: операция над списком этапов в редакторе.
type StageAction string

const (
	StageAdd      StageAction = "add"
	StageRemove   StageAction = "remove"
	StageMoveUp   StageAction = "move_up"
	StageMoveDown StageAction = "move_down"
)

type EditStagesInput struct {
	Stages []formats.StageDraft `json:"stages"`
	Action StageAction          `json:"action"`
	Index  int                  `json:"index"`
}

type SaveStagesInput struct {
	Stages []formats.StageDraft `json:"stages"`
}

type SaveStagesResult struct {
	Stages  []models.TournamentStage `json:"stages"`
	Summary models.FormatSummary     `json:"format_config"`
}

type StageService interface {
	FormatCatalog() []FormatDescriptor
	VisibleFields(t formats.FormatType, values map[string]any) ([]formats.Field, error)
	Presets() []formats.Preset
	Preview(input PreviewStageInput) (*PreviewStageResult, error)
	EditStages(input EditStagesInput) ([]formats.StageDraft, error)
	LoadPreset(ctx context.Context, tournamentID int, key string) ([]formats.StageDraft, error)
	ListStages(ctx context.Context, tournamentID int) ([]models.TournamentStage, error)
	SaveStages(ctx context.Context, tournamentID int, input SaveStagesInput) (*SaveStagesResult, error)
}

type stageService struct {
	tx             Transactor
	tournamentRepo repositories.TournamentRepository
	stageRepo      repositories.StageRepository
	deps           Deps
	now            func() time.Time
}

func NewStageService(tx Transactor, tournamentRepo repositories.TournamentRepository, stageRepo repositories.StageRepository, deps Deps) StageService {
	return &stageService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		stageRepo:      stageRepo,
		deps:           deps,
		now:            time.Now,
	}
}

func (s *stageService) FormatCatalog() []FormatDescriptor {
	types := formats.AllTypes()
	out := make([]FormatDescriptor, 0, len(types))
	for _, t := range types {
		out = append(out, FormatDescriptor{Type: t, Fields: formats.Fields(t)})
	}
	return out
}

func (s *stageService) VisibleFields(t formats.FormatType, values map[string]any) ([]formats.Field, error) {
	if !t.Valid() {
		return nil, validationError("unknown format_type %q", t)
	}
	return formats.VisibleFields(t, values), nil
}

func (s *stageService) Presets() []formats.Preset {
	return formats.Presets()
}

// Preview применяет смену типа формата и/или числа команд к черновику этапа
// и возвращает результат вместе с уведомлениями о перезаписанных названиях раундов.
func (s *stageService) Preview(input PreviewStageInput) (*PreviewStageResult, error) {
	draft := input.Stage
	if draft.Config == nil {
		if !draft.Type.Valid() {
			return nil, validationError("unknown format_type %q", draft.Type)
		}
		cfg, err := formats.NewConfig(draft.Type)
		if err != nil {
			return nil, validationError("%v", err)
		}
		draft.Config = cfg
	}

	notices := make([]formats.Notice, 0)
	if input.FormatType != nil && *input.FormatType != draft.Type {
		next, n, err := formats.ChangeFormatType(draft, *input.FormatType, input.PreserveRoundNames)
		if err != nil {
			return nil, validationError("%v", err)
		}
		draft = next
		notices = append(notices, n...)
	}
	if input.TeamsCount != nil {
		next, n, err := formats.ChangeTeamsCount(draft, *input.TeamsCount, input.PreserveRoundNames)
		if err != nil {
			return nil, validationError("%v", err)
		}
		draft = next
		notices = append(notices, n...)
	}
	draft = formats.EnsureRoundNames(draft)

	values, err := formats.ToValues(draft.Config)
	if err != nil {
		return nil, err
	}
	return &PreviewStageResult{
		Stage:         draft,
		VisibleFields: formats.VisibleFields(draft.Type, values),
		Notices:       notices,
	}, nil
}

// EditStages добавляет, удаляет или сдвигает этап в черновике списка.
// Ничего не сохраняет: список уходит в SaveStages целиком.
func (s *stageService) EditStages(input EditStagesInput) ([]formats.StageDraft, error) {
	stages := append([]formats.StageDraft(nil), input.Stages...)
	outOfRange := input.Index < 0 || input.Index >= len(stages)

	switch input.Action {
	case StageAdd:
		stages = append(stages, formats.NewStageDraft(len(stages)+1))
	case StageRemove:
		if outOfRange {
			return nil, validationError("stage index %d out of range", input.Index)
		}
		stages = formats.RemoveStage(stages, input.Index)
	case StageMoveUp, StageMoveDown:
		if outOfRange {
			return nil, validationError("stage index %d out of range", input.Index)
		}
		stages = formats.MoveStage(stages, input.Index, input.Action == StageMoveUp)
	default:
		return nil, validationError("unknown stage action %q", input.Action)
	}
	return formats.Renumber(stages), nil
}

func (s *stageService) LoadPreset(ctx context.Context, tournamentID int, key string) ([]formats.StageDraft, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}
	preset, err := formats.LookupPreset(key)
	if err != nil {
		if errors.Is(err, formats.ErrUnknownPreset) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}
	return preset.Stages, nil
}

// ListStages отдаёт этапы турнира с конфигом, приведённым к варианту формата.
// Старые записи с лишними ключами читаются нестрого.
func (s *stageService) ListStages(ctx context.Context, tournamentID int) ([]models.TournamentStage, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}
	stages, err := s.stageRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages of tournament %d: %w", tournamentID, err)
	}
	for i := range stages {
		cfg := decodeStoredConfig(s.deps.logger(), &stages[i])
		if raw, err := formats.Encode(cfg); err == nil {
			stages[i].FormatConfig = raw
		}
	}
	return stages, nil
}

// SaveStages заменяет все этапы турнира одной транзакцией и записывает сводку
// в tournaments.format_config. Версий нет: побеждает последняя запись.
func (s *stageService) SaveStages(ctx context.Context, tournamentID int, input SaveStagesInput) (*SaveStagesResult, error) {
	if len(input.Stages) == 0 {
		return nil, validationError("at least one stage is required")
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}

	drafts := make([]formats.StageDraft, len(input.Stages))
	copy(drafts, input.Stages)
	sort.SliceStable(drafts, func(i, j int) bool { return drafts[i].Order < drafts[j].Order })
	drafts = formats.Renumber(drafts)

	rows := make([]models.TournamentStage, 0, len(drafts))
	for i, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, validationError("stage %d: stage_name is required", i+1)
		}
		if !d.Type.Valid() {
			return nil, validationError("stage %d: unknown format_type %q", i+1, d.Type)
		}
		if d.Config == nil {
			cfg, err := formats.NewConfig(d.Type)
			if err != nil {
				return nil, validationError("stage %d: %v", i+1, err)
			}
			d.Config = cfg
		}
		d = formats.EnsureRoundNames(d)
		drafts[i] = d

		raw, err := formats.Encode(d.Config)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.TournamentStage{
			TournamentID: tournamentID,
			StageName:    d.Name,
			StageOrder:   d.Order,
			FormatType:   d.Type,
			FormatConfig: raw,
			IsActive:     true,
		})
	}

	summary := models.FormatSummary{
		TotalStages: len(drafts),
		TeamsCount:  drafts[0].Config.Teams(),
		UpdatedAt:   s.now().UTC(),
	}
	summaryRaw, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode format summary: %w", err)
	}

	var saved []models.TournamentStage
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		saved, err = s.stageRepo.ReplaceForTournament(ctx, exec, tournamentID, rows)
		if err != nil {
			return err
		}
		return s.tournamentRepo.UpdateFormatSummary(ctx, exec, tournamentID, summaryRaw, len(rows) > 1)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrStageOrderConflict):
			return nil, ErrStageOrderConflict
		case errors.Is(err, repositories.ErrStageInvalidFormat):
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to save stages of tournament %d: %w", tournamentID, err)
	}

	s.deps.logger().Info("tournament stages saved",
		slog.Int("tournament_id", tournamentID),
		slog.Int("total_stages", summary.TotalStages))
	s.deps.invalidate(ctx, cacheTournaments)
	s.deps.publish(tournamentRoom(tournamentID), brackets.EventStagesUpdated, map[string]interface{}{
		"tournament_id": tournamentID,
		"total_stages":  summary.TotalStages,
	})

	return &SaveStagesResult{Stages: saved, Summary: summary}, nil
}

// decodeStoredConfig читает конфиг этапа из БД. Если строгий разбор не
// проходит, ключи отбрасываются с предупреждением в лог.
func decodeStoredConfig(logger *slog.Logger, stage *models.TournamentStage) formats.Config {
	cfg, err := formats.Decode(stage.FormatType, stage.FormatConfig, true)
	if err == nil {
		return cfg
	}
	logger.Warn("stored stage config does not match its format, decoding leniently",
		slog.Int("stage_id", stage.ID),
		slog.String("format_type", string(stage.FormatType)),
		slog.Any("error", err))

	cfg, err = formats.Decode(stage.FormatType, stage.FormatConfig, false)
	if err == nil {
		return cfg
	}
	cfg, err = formats.NewConfig(stage.FormatType)
	if err != nil {
		return nil
	}
	return cfg
}
