package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/arenarium/services"
)

type ImageHandler struct {
	imageService services.ImageService
}

func NewImageHandler(is services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: is}
}

// UploadImage godoc
// @Summary      Upload an image into a bucket
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData file   true "Image (max 5MB)"
// @Param        bucket   formData string true "Bucket name"
// @Param        fileName formData string true "Object path without extension"
// @Success      200 {object} map[string]string
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /api/upload-image [post]
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, closer, err := readImageFile(w, r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closer.Close()

	bucket := strings.TrimSpace(r.FormValue("bucket"))
	fileName := strings.TrimSpace(r.FormValue("fileName"))
	if bucket == "" || fileName == "" {
		badRequestResponse(w, r, errors.New("file, bucket and fileName are required"))
		return
	}

	image, err := h.imageService.Upload(r.Context(), services.UploadImageInput{
		Bucket:   bucket,
		FileName: fileName,
		File:     file,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"path": image.Path, "url": image.URL}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteImage удаляет объект /api/images/{bucket}/*.
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	path := chi.URLParam(r, "*")
	if bucket == "" || path == "" {
		badRequestResponse(w, r, errors.New("bucket and object path are required"))
		return
	}

	if err := h.imageService.Delete(r.Context(), bucket, path); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
