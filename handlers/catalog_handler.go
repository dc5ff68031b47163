package handlers

import (
	"net/http"

	"github.com/Dosada05/arenarium/models"
	"github.com/Dosada05/arenarium/services"
)

// CatalogHandler обслуживает героев и предметы.
type CatalogHandler struct {
	catalogService services.CatalogService
	imageService   services.ImageService
}

func NewCatalogHandler(cs services.CatalogService, is services.ImageService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs, imageService: is}
}

// ListHeroes godoc
// @Summary      List heroes
// @Tags         heroes
// @Produce      json
// @Param        role query string false "Hero role"
// @Success      200 {object} map[string]interface{}
// @Router       /heroes [get]
func (h *CatalogHandler) ListHeroes(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.catalogService.ListHeroes(r.Context(), queryString(r, "role"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"heroes": heroes}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) GetHero(w http.ResponseWriter, r *http.Request) {
	heroID, err := getIDFromURL(r, "heroID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hero, err := h.catalogService.GetHero(r.Context(), heroID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"hero": hero}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) CreateHero(w http.ResponseWriter, r *http.Request) {
	var input services.HeroInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hero, err := h.catalogService.CreateHero(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"hero": hero}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	heroID, err := getIDFromURL(r, "heroID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.HeroInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hero, err := h.catalogService.UpdateHero(r.Context(), heroID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"hero": hero}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) DeleteHero(w http.ResponseWriter, r *http.Request) {
	heroID, err := getIDFromURL(r, "heroID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.catalogService.DeleteHero(r.Context(), heroID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) UploadHeroImage(w http.ResponseWriter, r *http.Request) {
	heroID, err := getIDFromURL(r, "heroID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closer, err := readImageFile(w, r, "image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	image, err := h.imageService.SetHeroImage(r.Context(), heroID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"image": image}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListItems godoc
// @Summary      List shop items
// @Tags         items
// @Produce      json
// @Param        price_range query string false "all, 0-1000, 1000-3000, 3000-5000 or 5000+"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /items [get]
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	priceRange := models.PriceAll
	if v := queryString(r, "price_range"); v != nil {
		priceRange = models.PriceRange(*v)
		// незакодированный "+" в query приходит пробелом
		if *v == "5000" {
			priceRange = models.PriceAbove5k
		}
	}

	items, err := h.catalogService.ListItems(r.Context(), priceRange)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := getIDFromURL(r, "itemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.catalogService.GetItem(r.Context(), itemID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"item": item}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input services.ItemInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.catalogService.CreateItem(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"item": item}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := getIDFromURL(r, "itemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ItemInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	item, err := h.catalogService.UpdateItem(r.Context(), itemID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"item": item}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := getIDFromURL(r, "itemID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.catalogService.DeleteItem(r.Context(), itemID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
