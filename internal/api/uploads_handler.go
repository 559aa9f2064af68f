package api

import (
	"errors"
	"io"
	"net/http"

	"campus-collective/agora/internal/models/dtos"
)

// maxImageBytes caps event image uploads at 5 MiB.
const maxImageBytes = 5 << 20

// UploadEventImage godoc
// @Summary      Upload an event image
// @Description  Accepts a multipart upload (field "image", png or jpeg,
// @Description  max 5 MiB) and returns the public URL. The client then sets
// @Description  the event's imageUrl through the edit endpoint.
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Success      200  {object}  responses.APIResponse[dtos.UploadResponse]
// @Failure      400,413  {object}  responses.APIResponse[dtos.UploadResponse]
// @Router       /api/v1/uploads/event-image [post]
func (h *Handlers) UploadEventImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithError(w, http.StatusRequestEntityTooLarge, "Image exceeds the 5 MiB limit")
				return
			}
			respondWithError(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Missing image field")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Unable to read upload")
			return
		}

		// Trust the bytes, not the declared content type.
		contentType := http.DetectContentType(data)
		if contentType != "image/png" && contentType != "image/jpeg" {
			respondWithError(w, http.StatusBadRequest, "Only png and jpeg images are accepted")
			return
		}

		url, err := h.deps.Services.Images.Store(r.Context(), viewerID(r), data, contentType)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Image stored", &dtos.UploadResponse{URL: url})
	}
}
