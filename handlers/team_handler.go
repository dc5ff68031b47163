package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

type TeamHandler struct {
	teamService  services.TeamService
	imageService services.ImageService
}

func NewTeamHandler(ts services.TeamService, is services.ImageService) *TeamHandler {
	return &TeamHandler{
		teamService:  ts,
		imageService: is,
	}
}

// ListTeams godoc
// @Summary      List teams
// @Tags         teams
// @Produce      json
// @Param        region query string false "Region"
// @Param        q      query string false "Search by name or code"
// @Success      200 {object} map[string]interface{}
// @Router       /teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTeamsFilter{
		Region: queryString(r, "region"),
		Query:  queryString(r, "q"),
	}

	teams, err := h.teamService.ListTeams(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.teamService.ListRegions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"regions": regions}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeam godoc
// @Summary      Team with its roster
// @Tags         teams
// @Produce      json
// @Param        teamID path int true "Team ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /teams/{teamID} [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTeamInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.teamService.DeleteTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadTeamLogo godoc
// @Summary      Upload team logo
// @Tags         teams
// @Accept       multipart/form-data
// @Produce      json
// @Param        teamID path int true "Team ID"
// @Param        logo formData file true "Logo image (max 5MB)"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /teams/{teamID}/logo [post]
func (h *TeamHandler) UploadTeamLogo(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closer, err := readImageFile(w, r, "logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	image, err := h.imageService.SetTeamLogo(r.Context(), teamID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"image": image}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
