package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	imageService  services.ImageService
}

func NewPlayerHandler(ps services.PlayerService, is services.ImageService) *PlayerHandler {
	return &PlayerHandler{playerService: ps, imageService: is}
}

// ListPlayers godoc
// @Summary      List players
// @Tags         players
// @Produce      json
// @Param        role      query string false "Role"
// @Param        team_code query string false "Team code"
// @Param        status    query string false "active, inactive or retired"
// @Param        q         query string false "Search by name"
// @Success      200 {object} map[string]interface{}
// @Router       /players [get]
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListPlayersFilter{
		Role:     queryString(r, "role"),
		TeamCode: queryString(r, "team_code"),
		Query:    queryString(r, "q"),
	}
	if s := queryString(r, "status"); s != nil {
		status := models.PlayerStatus(*s)
		filter.Status = &status
	}

	players, err := h.playerService.ListPlayers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FilterOptions отдаёт значения для выпадающих фильтров (роли и коды команд).
func (h *PlayerHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.playerService.FilterOptions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"filters": options}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.GetPlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.CreatePlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.UpdatePlayer(r.Context(), playerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.playerService.DeletePlayer(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) UploadPlayerPhoto(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closer, err := readImageFile(w, r, "photo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	image, err := h.imageService.SetPlayerPhoto(r.Context(), playerID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"image": image}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
