package handlers

import (
	"net/http"
	"strings"
)

// maxUploadBytes caps multipart uploads (10MB).
const maxUploadBytes = 10 << 20

type UploadResponse struct {
	URL string `json:"url"`
}

// UploadImage hosts a pet photo and returns the URL to send as imageUrl.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	url, err := h.uploader.Upload(r.Context(), file)
	if err != nil {
		h.internalError(w, r, "upload image", err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{URL: url})
}
