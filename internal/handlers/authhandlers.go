package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/auth"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register регистрирует нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "email and password are required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := h.Users.SaveUser(r.Context(), user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "User already exists"})
			return
		}
		h.writeError(w, err)
		return
	}

	h.Logger.Info("Пользователь зарегистрирован", zap.String("email", req.Email))
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "User registered successfully"})
}

// Login проверяет пароль и выпускает токен.
// Несуществующий email и неверный пароль неразличимы в ответе.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Invalid email or password"})
		return
	}

	token, err := h.Auth.IssueToken(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Token: token,
		User: model.LoginUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}
