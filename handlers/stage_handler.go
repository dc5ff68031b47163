package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/arenarium/formats"
	"github.com/Dosada05/arenarium/services"
)

// StageHandler обслуживает редактор форматов, этапы турнира и сетки.
type StageHandler struct {
	stageService   services.StageService
	bracketService services.BracketService
}

func NewStageHandler(ss services.StageService, bs services.BracketService) *StageHandler {
	return &StageHandler{stageService: ss, bracketService: bs}
}

// FormatCatalog godoc
// @Summary      Stage format types with their config fields
// @Tags         stage-formats
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /stage-formats [get]
func (h *StageHandler) FormatCatalog(w http.ResponseWriter, r *http.Request) {
	err := writeJSON(w, http.StatusOK, jsonResponse{"formats": h.stageService.FormatCatalog()}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) Presets(w http.ResponseWriter, r *http.Request) {
	err := writeJSON(w, http.StatusOK, jsonResponse{"presets": h.stageService.Presets()}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// VisibleFields возвращает поля конфигурации, видимые при текущих значениях.
func (h *StageHandler) VisibleFields(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FormatType formats.FormatType `json:"format_type"`
		Values     map[string]any     `json:"values"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.FormatType == "" {
		badRequestResponse(w, r, errors.New("format_type is required"))
		return
	}

	fields, err := h.stageService.VisibleFields(input.FormatType, input.Values)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"fields": fields}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Preview godoc
// @Summary      Apply a format type or teams count change to a draft stage
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.PreviewStageInput true "Draft stage and change"
// @Success      200 {object} services.PreviewStageResult
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/stages/preview [post]
func (h *StageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if _, err := getIDFromURL(r, "tournamentID"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PreviewStageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.stageService.Preview(input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EditStages godoc
// @Summary      Add, remove or move a stage in a draft stage list
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.EditStagesInput true "Draft stages, action and index"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/stages/edit [post]
func (h *StageHandler) EditStages(w http.ResponseWriter, r *http.Request) {
	if _, err := getIDFromURL(r, "tournamentID"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EditStagesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stages, err := h.stageService.EditStages(input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"stages": stages}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stages, err := h.stageService.LoadPreset(r.Context(), tournamentID, chi.URLParam(r, "preset"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"stages": stages}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StageHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stages, err := h.stageService.ListStages(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"stages": stages}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveStages godoc
// @Summary      Replace all stages of a tournament
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.SaveStagesInput true "Full ordered stage list"
// @Success      200 {object} services.SaveStagesResult
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/stages [put]
func (h *StageHandler) SaveStages(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SaveStagesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.stageService.SaveStages(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary      Rendered bracket or standings of a stage
// @Tags         stages
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        stageID path int true "Stage ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournamentID}/stages/{stageID}/bracket [get]
func (h *StageHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.RenderStage(r.Context(), tournamentID, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
