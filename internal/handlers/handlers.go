package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AnshRaj112/petverse-backend/internal/services"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const msgInternal = "Internal Server Error"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the HTTP API over the auth and pet services.
type Handler struct {
	auth     *services.AuthService
	pets     *services.PetService
	uploader services.ImageUploader
	logger   *zap.Logger
}

// New builds a Handler. uploader may be nil, in which case /upload answers 503.
func New(auth *services.AuthService, pets *services.PetService, uploader services.ImageUploader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{auth: auth, pets: pets, uploader: uploader, logger: logger}
}

// Health is the liveness check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API is running!"))
}

// decodeJSON reads the request body into dst. An empty body decodes as an
// empty object so missing fields are reported as such.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// internalError logs err server-side and answers with a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
