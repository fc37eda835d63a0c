package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/middleware"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/go-chi/chi/v5"
)

// CreateForm создаёт форму. Владелец — аутентифицированный пользователь.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var req model.FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	form, err := h.Forms.CreateForm(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "This custom link is already in use"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// ListForms возвращает формы аутентифицированного пользователя.
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.Forms.ListForms(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if forms == nil {
		forms = []*model.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

// ListExpiredForms возвращает истёкшие формы пользователя.
func (h *Handler) ListExpiredForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.Forms.ListExpiredForms(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if forms == nil {
		forms = []*model.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

// GetForm отдаёт форму по id или пользовательской ссылке (публичный маршрут).
// Истёкшая форма не прячется: в ответ добавляется признак expired.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	idOrLink := chi.URLParam(r, "id")
	form, err := h.Forms.GetForm(r.Context(), idOrLink)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// GetSharedForm резолвит публичный идентификатор (custom link → urlId → id).
// Поле owner в ответ не попадает; истёкшая форма даёт ошибку, а не данные.
func (h *Handler) GetSharedForm(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	form, err := h.Forms.GetSharedForm(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// UpdateForm обновляет форму владельца.
// Чужая или отсутствующая форма даёт одинаковый 404.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req model.FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	form, err := h.Forms.UpdateForm(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Custom link is already in use"})
			return
		}
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found or unauthorized"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// DeleteForm жёстко удаляет форму владельца.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	err := h.Forms.DeleteForm(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found or unauthorized"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Form deleted successfully"})
}

// ExpireForm немедленно истекает форму владельца.
func (h *Handler) ExpireForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.Forms.ExpireForm(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found or unauthorized"})
			return
		}
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string      `json:"message"`
		Form    *model.Form `json:"form"`
	}{Message: "Form expired successfully", Form: form})
}

// PublishForm публикует или снимает с публикации форму владельца.
func (h *Handler) PublishForm(w http.ResponseWriter, r *http.Request) {
	var req model.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	form, err := h.Forms.PublishForm(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Published)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "Form not found or unauthorized"})
			return
		}
		h.writeError(w, err)
		return
	}

	msg := "Form unpublished successfully"
	if req.Published {
		msg = "Form published successfully"
	}
	writeJSON(w, http.StatusOK, struct {
		Message string      `json:"message"`
		Form    *model.Form `json:"form"`
	}{Message: msg, Form: form})
}
