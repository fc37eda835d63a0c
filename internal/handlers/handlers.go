// Package handlers содержит HTTP-обработчики сервиса форм.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/auth"
	"github.com/flexiforms/FlexiForms/internal/filestore"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/service"
	"go.uber.org/zap"
)

// UserRepo определяет контракт хранилища пользователей для обработчиков.
type UserRepo interface {
	SaveUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Handler агрегирует зависимости HTTP-слоя.
type Handler struct {
	Forms       *service.FormService
	Submissions *service.SubmissionService
	Users       UserRepo
	Auth        *auth.Auth
	Files       *filestore.FileStore
	Logger      *zap.Logger
}

// NewHandler создаёт Handler со всеми зависимостями.
func NewHandler(forms *service.FormService, subs *service.SubmissionService, users UserRepo, a *auth.Auth, files *filestore.FileStore, logger *zap.Logger) *Handler {
	return &Handler{
		Forms:       forms,
		Submissions: subs,
		Users:       users,
		Auth:        a,
		Files:       files,
		Logger:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError отображает типизированные ошибки в HTTP-статусы.
// Внутренние ошибки хранилища наружу не раскрываются.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperr.ErrExpired):
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{Error: "This form has expired"})
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Already in use"})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: ve.Msg})
	default:
		h.Logger.Error("Внутренняя ошибка", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Server error"})
	}
}

// Ping проверяет доступность хранилища.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.Forms.Ping(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
