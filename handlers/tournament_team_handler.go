package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/services"
)

// TournamentTeamHandler управляет участниками турнира и их посевом.
type TournamentTeamHandler struct {
	teamsService services.TournamentTeamService
}

func NewTournamentTeamHandler(s services.TournamentTeamService) *TournamentTeamHandler {
	return &TournamentTeamHandler{teamsService: s}
}

func (h *TournamentTeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamsService.ListTeams(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentTeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddTournamentTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.teamsService.AddTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"team": entry}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentTeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.teamsService.UpdateTeam(r.Context(), tournamentID, entryID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"team": entry}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentTeamHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamsService.RemoveTeam(r.Context(), tournamentID, entryID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentTeamHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, true)
}

func (h *TournamentTeamHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, false)
}

func (h *TournamentTeamHandler) move(w http.ResponseWriter, r *http.Request, up bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamsService.MoveTeam(r.Context(), tournamentID, entryID, up)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveSeeding заменяет весь список участников одним запросом.
func (h *TournamentTeamHandler) SaveSeeding(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Teams []services.SeedEntry `json:"teams"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamsService.SaveSeeding(r.Context(), tournamentID, input.Teams)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
