package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

type StatisticsHandler struct {
	statisticsService services.StatisticsService
}

func NewStatisticsHandler(ss services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: ss}
}

// Report godoc
// @Summary      Statistics summary, per-team stats and matchup matrix
// @Tags         statistics
// @Produce      json
// @Param        team_id query int false "Filter rows by team"
// @Success      200 {object} models.StatisticsReport
// @Router       /statistics [get]
func (h *StatisticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.statisticsService.Report(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, report, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatisticsHandler) ListStatistics(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListStatisticsFilter
	var err error

	if filter.TeamID, err = queryInt(r, "team_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.TournamentID, err = queryInt(r, "tournament_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.StatType = queryString(r, "stat_type")

	stats, err := h.statisticsService.ListStatistics(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"statistics": stats}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatisticsHandler) CreateStatistic(w http.ResponseWriter, r *http.Request) {
	var input services.StatisticInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stat, err := h.statisticsService.CreateStatistic(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"statistic": stat}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatisticsHandler) UpdateStatistic(w http.ResponseWriter, r *http.Request) {
	statID, err := getIDFromURL(r, "statID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StatisticInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stat, err := h.statisticsService.UpdateStatistic(r.Context(), statID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"statistic": stat}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatisticsHandler) DeleteStatistic(w http.ResponseWriter, r *http.Request) {
	statID, err := getIDFromURL(r, "statID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.statisticsService.DeleteStatistic(r.Context(), statID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
