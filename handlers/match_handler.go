package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

type MatchHandler struct {
	matchService services.MatchService
	imageService services.ImageService
}

func NewMatchHandler(ms services.MatchService, is services.ImageService) *MatchHandler {
	return &MatchHandler{matchService: ms, imageService: is}
}

// ListMatches godoc
// @Summary      List matches with team and tournament names
// @Tags         matches
// @Produce      json
// @Param        status        query string false "scheduled, live, completed, cancelled or postponed"
// @Param        tournament_id query int    false "Tournament ID"
// @Param        stage_id      query int    false "Stage ID"
// @Success      200 {object} map[string]interface{}
// @Router       /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListMatchesFilter
	var err error

	if s := queryString(r, "status"); s != nil {
		status := models.MatchStatus(*s)
		filter.Status = &status
	}
	if filter.TournamentID, err = queryInt(r, "tournament_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.StageID, err = queryInt(r, "stage_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.MatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.MatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateMatch(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.DeleteMatch(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.matchService.CreateGame(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.matchService.UpdateGame(r.Context(), matchID, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.DeleteGame(r.Context(), matchID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadScreenshot сохраняет скриншот матча; URL уходит только в событие.
func (h *MatchHandler) UploadScreenshot(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closer, err := readImageFile(w, r, "screenshot")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	image, err := h.imageService.AddMatchScreenshot(r.Context(), matchID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"image": image}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
