package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/petverse-backend/internal/services"
	"github.com/AnshRaj112/petverse-backend/pkg/utils"
)

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.RequireFields("All fields are required!",
		utils.Field{Name: "username", Value: req.Username},
		utils.Field{Name: "mobile", Value: req.Mobile},
		utils.Field{Name: "email", Value: req.Email},
		utils.Field{Name: "password", Value: req.Password},
	); err != nil {
		writeError(w, http.StatusBadRequest, "All fields are required!")
		return
	}

	_, err := h.auth.Register(r.Context(), req.Username, req.Mobile, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email already exists!")
			return
		}
		h.internalError(w, r, "signup", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User Registered Successfully!"})
}

// Login handles user login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.RequireFields("Email and password are required",
		utils.Field{Name: "email", Value: req.Email},
		utils.Field{Name: "password", Value: req.Password},
	); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "User Not Found")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid Credentials")
		return
	default:
		h.internalError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Username: res.Username,
		Token:    res.Token,
		UserID:   res.UserID,
	})
}
