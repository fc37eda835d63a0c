package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flexiforms/FlexiForms/internal/middleware"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/validator"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20 // 32 MB

// submitPayload разбирает тело запроса на отправку: либо JSON
// {"responses": {...}}, либо multipart, где поле responses — JSON-строка,
// а файловые части именованы идентификаторами полей формы.
func (h *Handler) submitPayload(r *http.Request) (map[string]any, []validator.UploadedFile, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req model.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, nil, err
		}
		return req.Responses, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, err
	}

	raw := make(map[string]any)
	if encoded := r.FormValue("responses"); encoded != "" {
		if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
			return nil, nil, err
		}
	}

	// Файлы сохраняются до записи отправки: в документ попадает только токен.
	var files []validator.UploadedFile
	for fieldName, headers := range r.MultipartForm.File {
		for _, header := range headers {
			src, err := header.Open()
			if err != nil {
				return nil, nil, err
			}
			stored, err := h.Files.Save(src, header.Filename)
			src.Close()
			if err != nil {
				return nil, nil, err
			}
			files = append(files, validator.UploadedFile{FieldName: fieldName, StoredAs: stored})
		}
	}
	return raw, files, nil
}

// SubmitForm принимает ответ на форму (публичный маршрут, пользователь
// фиксируется, если аутентифицирован).
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	raw, files, err := h.submitPayload(r)
	if err != nil {
		h.Logger.Warn("Некорректное тело отправки", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	sub, err := h.Submissions.Submit(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), raw, files)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// ListFormSubmissions возвращает отправки формы (любой аутентифицированный
// пользователь — проверка владения на этом маршруте не выполняется).
func (h *Handler) ListFormSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Submissions.ListForForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// ListUserSubmissions возвращает отправки аутентифицированного пользователя.
func (h *Handler) ListUserSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Submissions.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if subs == nil {
		subs = []*model.SubmissionWithForm{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetSubmission отдаёт отправку владельцу формы или её автору.
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Submissions.Get(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// UpdateSubmission заменяет ответы отправки целиком.
func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	sub, err := h.Submissions.Update(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()), req.Responses)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message    string            `json:"message"`
		Submission *model.Submission `json:"submission"`
	}{Message: "Submission updated successfully", Submission: sub})
}

// DeleteSubmission удаляет отправку её автора.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	err := h.Submissions.Delete(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Submission deleted successfully"})
}

// ServeUpload отдаёт сохранённый файл по его токену.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	file, err := h.Files.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, stat.ModTime(), file)
}
