package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pineacles/habit-pulse/internal/middleware"
	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/Pineacles/habit-pulse/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func (handler *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := handler.authService.Register(r.Context(), request.Username, request.Email, request.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if err != nil {
		slog.Error("registering user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := handler.authService.Login(r.Context(), request.Username, request.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		slog.Error("logging in", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (handler *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
