package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	imageService      services.ImageService
}

func NewTournamentHandler(ts services.TournamentService, is services.ImageService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts, imageService: is}
}

// ListTournaments godoc
// @Summary      List tournaments with stages and next/last match
// @Tags         tournaments
// @Produce      json
// @Param        status query string false "upcoming, ongoing, completed or cancelled"
// @Success      200 {object} map[string]interface{}
// @Router       /tournaments [get]
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	var status *models.TournamentStatus
	if s := queryString(r, "status"); s != nil {
		v := models.TournamentStatus(*s)
		status = &v
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournament godoc
// @Summary      Tournament with teams by seed, matches and stages
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.tournamentService.GetTournamentDetails(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"tournament": details}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTournamentInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadTournamentImage принимает /tournaments/{tournamentID}/images/{kind}, где kind: logo или banner.
func (h *TournamentHandler) UploadTournamentImage(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	column := repositories.TournamentImageColumn(chi.URLParam(r, "kind"))
	if column != repositories.TournamentLogo && column != repositories.TournamentBanner {
		badRequestResponse(w, r, fmt.Errorf("unknown tournament image %q", column))
		return
	}

	file, closer, err := readImageFile(w, r, string(column))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	image, err := h.imageService.SetTournamentImage(r.Context(), tournamentID, column, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"image": image}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
